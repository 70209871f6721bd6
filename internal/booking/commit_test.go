package booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

func TestReserve_Success(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(t, WithNotifier(notifier))

	res, err := svc.Reserve(context.Background(), validRequest(10, 11, 12))
	require.NoError(t, err)

	assert.NotZero(t, res.ID)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, now.UTC(), res.CreatedAt)
	assert.Equal(t, at(t, tomorrow, 10), res.StartTime)
	assert.Equal(t, at(t, tomorrow, 13), res.EndTime)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, res.ID, all[0].ID)

	stored, err := svc.Reservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kim Minji", stored.ApplicantName)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, res.ID, notifier.calls[0].ID)
}

func TestReserve_TouchingBoundaryIsAllowed(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(reservation(t, 1, tomorrow, 10, 12))

	_, err := svc.Reserve(context.Background(), validRequest(12))
	require.NoError(t, err)
	_, err = svc.Reserve(context.Background(), validRequest(9))
	require.NoError(t, err)
	assert.Len(t, store.All(), 3)
}

func TestReserve_OverlapConflicts(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(t, WithNotifier(notifier))
	store.Seed(reservation(t, 1, tomorrow, 10, 12))

	_, err := svc.Reserve(context.Background(), validRequest(11, 12))
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Contains(t, err.Error(), "10:00-12:00")
	assert.Len(t, store.All(), 1)
	assert.Empty(t, notifier.calls)
}

func TestReserve_ContainedAndContainingConflict(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(reservation(t, 1, tomorrow, 11, 12))

	_, err := svc.Reserve(context.Background(), validRequest(10, 11, 12))
	assert.ErrorIs(t, err, ErrSlotConflict)

	store.Seed(reservation(t, 1, tomorrow, 14, 17))
	_, err = svc.Reserve(context.Background(), validRequest(15))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestReserve_OtherFacilityOrDayDoesNotConflict(t *testing.T) {
	svc, store := newTestService(t)
	store.AddFacility(model.Facility{ID: 2, Name: "Meeting Room", Type: "meeting"})
	store.Seed(
		reservation(t, 2, tomorrow, 10, 12),
		reservation(t, 1, "2026-10-19", 10, 12),
	)
	_, err := svc.Reserve(context.Background(), validRequest(10, 11))
	assert.NoError(t, err)
}

func TestReserve_ConcurrentIdenticalRequests(t *testing.T) {
	svc, store := newTestService(t)
	// Widen the window between the overlap check and the insert.
	store.BeforeCreate = func() { time.Sleep(20 * time.Millisecond) }

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Reserve(context.Background(), validRequest(13, 14))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrSlotConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(1), conflicts.Load())
	assert.Len(t, store.All(), 1)
}

func TestReserve_ConcurrentRandomRequestsNeverOverlap(t *testing.T) {
	svc, store := newTestService(t)
	rng := rand.New(rand.NewSource(7))

	requests := make([]Request, 40)
	for i := range requests {
		first := OpenHour + rng.Intn(SlotsPerDay)
		n := 1 + rng.Intn(CloseHour-first)
		slots := make([]int, 0, n)
		for h := first; h < first+n; h++ {
			slots = append(slots, h)
		}
		requests[i] = validRequest(slots...)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, req := range requests {
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			<-start
			_, err := svc.Reserve(context.Background(), req)
			if err != nil && !errors.Is(err, ErrSlotConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}(req)
	}
	close(start)
	wg.Wait()

	all := store.All()
	require.NotEmpty(t, all)
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			assert.False(t, all[i].Overlaps(all[j].StartTime, all[j].EndTime),
				"reservations %d and %d overlap", all[i].ID, all[j].ID)
		}
	}
}

func TestCommit_FacilityRemovedAfterValidation(t *testing.T) {
	svc, store := newTestService(t)
	v, err := svc.Validate(context.Background(), validRequest(9))
	require.NoError(t, err)

	_, err = store.Facilities().Delete(context.Background(), practiceRoom.ID)
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), v)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.All())
}

func TestCommit_RejectsEmptyInterval(t *testing.T) {
	svc, _ := newTestService(t)
	start := at(t, tomorrow, 10)
	v := &Validated{Facility: practiceRoom, Reservation: model.Reservation{FacilityID: 1, StartTime: start, EndTime: start}}
	_, err := svc.Commit(context.Background(), v)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCommit_StorageErrors(t *testing.T) {
	t.Run("lock", func(t *testing.T) {
		svc, store := newTestService(t)
		store.LockErr = errors.New("lock wait timeout")
		_, err := svc.Reserve(context.Background(), validRequest(9))
		assert.ErrorIs(t, err, ErrStorage)
		assert.Empty(t, store.All())
	})
	t.Run("create", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc, store := newTestService(t, WithNotifier(notifier))
		store.CreateErr = errors.New("disk full")
		_, err := svc.Reserve(context.Background(), validRequest(9))
		require.ErrorIs(t, err, ErrStorage)
		var se *StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "create reservation", se.Op)
		assert.Empty(t, store.All())
		assert.Empty(t, notifier.calls)
	})
}

func TestCommit_NotifierFailureIsIgnored(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc, store := newTestService(t, WithNotifier(notifier))

	_, err := svc.Reserve(context.Background(), validRequest(16, 17))
	require.NoError(t, err)
	assert.Len(t, store.All(), 1)
	assert.Len(t, notifier.calls, 1)
}

func TestReservation_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Reservation(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDayReservations(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(
		reservation(t, 1, tomorrow, 15, 16),
		reservation(t, 1, tomorrow, 9, 10),
		reservation(t, 1, "2026-10-19", 9, 10),
	)
	date, _ := svc.ParseDate(tomorrow)
	out, err := svc.DayReservations(context.Background(), 1, date)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].StartTime.Before(out[1].StartTime))

	_, err = svc.DayReservations(context.Background(), 9, date)
	assert.ErrorIs(t, err, ErrNotFound)
}
