package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking/bookingtest"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/clock"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

var kst = time.FixedZone("KST", 9*60*60)

// now is the fixed "current time" of every test: 2026-10-17 15:00 KST.
var now = time.Date(2026, 10, 17, 15, 0, 0, 0, kst)

const (
	today    = "2026-10-17"
	tomorrow = "2026-10-18"
)

var practiceRoom = model.Facility{ID: 1, Name: "Practice Room A", Type: "practice"}

func newTestService(t *testing.T, opts ...Option) (*Service, *bookingtest.MemStore) {
	t.Helper()
	store := bookingtest.NewMemStore(practiceRoom)
	opts = append([]Option{WithLocation(kst)}, opts...)
	return NewService(store.Facilities(), store.Reservations(), clock.NewFixed(now), opts...), store
}

// at returns hour h of the given YYYY-MM-DD day in KST.
func at(t *testing.T, day string, h int) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(DateLayout, day, kst)
	if err != nil {
		t.Fatalf("parse %s: %v", day, err)
	}
	return d.Add(time.Duration(h) * time.Hour)
}

func reservation(t *testing.T, facilityID uint64, day string, startHour, endHour int) model.Reservation {
	t.Helper()
	return model.Reservation{
		FacilityID:       facilityID,
		ApplicantName:    "seed",
		ApplicantContact: "000",
		Status:           model.StatusConfirmed,
		StartTime:        at(t, day, startHour).UTC(),
		EndTime:          at(t, day, endHour).UTC(),
	}
}

func validRequest(slots ...int) Request {
	return Request{
		FacilityID:       practiceRoom.ID,
		Date:             tomorrow,
		Slots:            slots,
		ApplicantName:    "Kim Minji",
		ApplicantContact: "010-1234-5678",
		Agree:            true,
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []model.Reservation
	err   error
}

func (n *recordingNotifier) NotifyConfirmed(ctx context.Context, f model.Facility, r model.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, r)
	return n.err
}
