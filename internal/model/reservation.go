package model

import "time"

// Reservation status values.  The commit path only ever writes
// StatusConfirmed; StatusPending is accepted when reading rows written
// by older revisions of the schema.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
)

// Reservation records a visitor's booking of a facility for a contiguous
// block of hourly slots on a single day.  Reservations are never mutated
// after creation.  StartTime and EndTime are absolute instants stored in
// UTC; the hour grid is interpreted in the booking location.
//
// Fields:
//  ID                 – primary key identifier.
//  FacilityID         – facility being reserved.
//  ApplicantName      – name of the applicant (required).
//  ApplicantContact   – phone or other contact (required).
//  ApplicantSchool    – optional school name.
//  ApplicantClub      – optional club name.
//  ActivityDetails    – optional free text describing the activity.
//  Status             – pending or confirmed.
//  StartTime          – start of the reserved interval (inclusive).
//  EndTime            – end of the reserved interval (exclusive).
//  ParticipantInfo    – head count per age bracket label.
//  RequestedEquipment – equipment labels requested with the room.
//  CreatedAt          – creation timestamp.
type Reservation struct {
    ID                 uint64         `json:"id"`                  // reservations.id
    FacilityID         uint64         `json:"facility_id"`         // reservations.facility_id
    ApplicantName      string         `json:"applicant_name"`      // reservations.applicant_name
    ApplicantContact   string         `json:"applicant_contact"`   // reservations.applicant_contact
    ApplicantSchool    *string        `json:"applicant_school,omitempty"` // reservations.applicant_school (nullable)
    ApplicantClub      *string        `json:"applicant_club,omitempty"`   // reservations.applicant_club (nullable)
    ActivityDetails    *string        `json:"activity_details,omitempty"` // reservations.activity_details (nullable)
    Status             string         `json:"status"`              // reservations.status
    StartTime          time.Time      `json:"start_time"`          // reservations.start_time
    EndTime            time.Time      `json:"end_time"`            // reservations.end_time
    ParticipantInfo    map[string]int `json:"participant_info"`    // reservations.participant_info (JSON)
    RequestedEquipment []string       `json:"requested_equipment"` // reservations.requested_equipment (JSON)
    CreatedAt          time.Time      `json:"created_at"`          // reservations.created_at
}

// Overlaps reports whether r and the half-open interval [start, end)
// share at least one instant.  Touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
    return r.StartTime.Before(end) && r.EndTime.After(start)
}
