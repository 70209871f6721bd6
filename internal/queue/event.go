// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
    "time"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// ReservationConfirmedEvent is published when a reservation is committed.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.  The applicant's contact is left out.
type ReservationConfirmedEvent struct {
    ReservationID uint64   `json:"reservation_id"`
    FacilityID    uint64   `json:"facility_id"`
    FacilityName  string   `json:"facility_name"`
    FacilityType  string   `json:"facility_type"`
    ApplicantName string   `json:"applicant_name"`
    Date          string   `json:"date"`      // YYYY-MM-DD in the booking location
    StartsAt      string   `json:"starts_at"` // RFC3339
    EndsAt        string   `json:"ends_at"`   // RFC3339
    Participants  int      `json:"participants"`
    Equipment     []string `json:"equipment"`
    ConfirmedAt   string   `json:"confirmed_at"`
}

// NewReservationConfirmedEvent builds the event for r, rendering times in loc.
func NewReservationConfirmedEvent(f model.Facility, r model.Reservation, loc *time.Location) ReservationConfirmedEvent {
    if loc == nil {
        loc = time.UTC
    }
    total := 0
    for _, n := range r.ParticipantInfo {
        total += n
    }
    equipment := r.RequestedEquipment
    if equipment == nil {
        equipment = []string{}
    }
    start := r.StartTime.In(loc)
    return ReservationConfirmedEvent{
        ReservationID: r.ID,
        FacilityID:    f.ID,
        FacilityName:  f.Name,
        FacilityType:  f.Type,
        ApplicantName: r.ApplicantName,
        Date:          start.Format("2006-01-02"),
        StartsAt:      start.Format(time.RFC3339),
        EndsAt:        r.EndTime.In(loc).Format(time.RFC3339),
        Participants:  total,
        Equipment:     equipment,
        ConfirmedAt:   r.CreatedAt.In(loc).Format(time.RFC3339),
    }
}
