package booking

import (
	"context"
	"time"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// SlotStatus is the state of one hourly slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Slot is one entry of an availability listing.
type Slot struct {
	Hour   int        `json:"hour"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Label  string     `json:"label"`
	Status SlotStatus `json:"status"`
}

// Availability is the per-hour status of a facility on one day.  Slots
// always has exactly SlotsPerDay entries.  Reservable is false for today
// and past days; the map is still filled in for viewing.
type Availability struct {
	FacilityID uint64
	Date       time.Time
	Reservable bool
	Slots      map[int]SlotStatus
}

// Ordered returns the slots sorted by hour.
func (a Availability) Ordered() []Slot {
	out := make([]Slot, 0, SlotsPerDay)
	for _, h := range Hours() {
		start, end := SlotInterval(a.Date, h)
		out = append(out, Slot{Hour: h, Start: start, End: end, Label: SlotLabel(h), Status: a.Slots[h]})
	}
	return out
}

// Booked returns the booked hours in ascending order.
func (a Availability) Booked() []int {
	var out []int
	for _, h := range Hours() {
		if a.Slots[h] == SlotBooked {
			out = append(out, h)
		}
	}
	return out
}

// Availability computes the slot status of a facility on date.  It
// reads the reservations starting on that day and marks every hour in
// [start.hour, end.hour) that falls inside the booking window.  The
// result is a snapshot; the commit path re-checks before writing.
func (s *Service) Availability(ctx context.Context, facilityID uint64, date time.Time) (*Availability, error) {
	if _, err := s.Facility(ctx, facilityID); err != nil {
		return nil, err
	}
	from := dayStart(date, s.loc)
	to := from.AddDate(0, 0, 1)
	reservations, err := s.reservations.ListByFacilityBetween(ctx, facilityID, from, to)
	if err != nil {
		return nil, storageErr("list reservations", err)
	}
	return &Availability{
		FacilityID: facilityID,
		Date:       from,
		Reservable: s.Reservable(from),
		Slots:      markSlots(reservations, s.loc),
	}, nil
}

// markSlots builds the hour -> status map for a day's reservations.
func markSlots(reservations []model.Reservation, loc *time.Location) map[int]SlotStatus {
	slots := make(map[int]SlotStatus, SlotsPerDay)
	for _, h := range Hours() {
		slots[h] = SlotAvailable
	}
	for _, r := range reservations {
		start, end := clampHours(r.StartTime.In(loc).Hour(), r.EndTime.In(loc).Hour())
		for h := start; h < end; h++ {
			slots[h] = SlotBooked
		}
	}
	return slots
}
