package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

func TestAvailability_BookedIsClampedUnion(t *testing.T) {
	svc, store := newTestService(t)
	other := model.Facility{ID: 2, Name: "Meeting Room", Type: "meeting"}
	store.AddFacility(other)
	store.Seed(
		reservation(t, 1, tomorrow, 10, 12),
		reservation(t, 1, tomorrow, 15, 16),
		reservation(t, 1, tomorrow, 7, 10),  // clamps to 9
		reservation(t, 1, tomorrow, 17, 20), // clamps to 17
		reservation(t, 1, today, 13, 15),    // other day
		reservation(t, 2, tomorrow, 13, 14), // other facility
	)

	date, err := svc.ParseDate(tomorrow)
	require.NoError(t, err)
	a, err := svc.Availability(context.Background(), 1, date)
	require.NoError(t, err)

	assert.Len(t, a.Slots, SlotsPerDay)
	assert.Equal(t, []int{9, 10, 11, 15, 17}, a.Booked())
	assert.True(t, a.Reservable)
	for _, h := range []int{12, 13, 14, 16} {
		assert.Equal(t, SlotAvailable, a.Slots[h], "hour %d", h)
	}
}

func TestAvailability_Ordered(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(reservation(t, 1, tomorrow, 9, 10))

	date, _ := svc.ParseDate(tomorrow)
	a, err := svc.Availability(context.Background(), 1, date)
	require.NoError(t, err)

	slots := a.Ordered()
	require.Len(t, slots, SlotsPerDay)
	assert.Equal(t, 9, slots[0].Hour)
	assert.Equal(t, SlotBooked, slots[0].Status)
	assert.Equal(t, "09:00-10:00", slots[0].Label)
	assert.Equal(t, at(t, tomorrow, 9), slots[0].Start)
	assert.Equal(t, 17, slots[8].Hour)
	assert.Equal(t, SlotAvailable, slots[8].Status)
}

func TestAvailability_TodayIsViewOnly(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(reservation(t, 1, today, 9, 11))

	date, _ := svc.ParseDate(today)
	a, err := svc.Availability(context.Background(), 1, date)
	require.NoError(t, err)
	assert.False(t, a.Reservable)
	assert.Equal(t, []int{9, 10}, a.Booked())
}

func TestAvailability_EmptyDay(t *testing.T) {
	svc, _ := newTestService(t)
	date, _ := svc.ParseDate(tomorrow)
	a, err := svc.Availability(context.Background(), 1, date)
	require.NoError(t, err)
	assert.Empty(t, a.Booked())
}

func TestAvailability_UnknownFacility(t *testing.T) {
	svc, _ := newTestService(t)
	date, _ := svc.ParseDate(tomorrow)
	_, err := svc.Availability(context.Background(), 99, date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailability_StorageError(t *testing.T) {
	svc, store := newTestService(t)
	store.ListErr = errors.New("connection reset")
	date, _ := svc.ParseDate(tomorrow)

	_, err := svc.Availability(context.Background(), 1, date)
	assert.ErrorIs(t, err, ErrStorage)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "list reservations", se.Op)
}
