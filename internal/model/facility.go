package model

import "time"

// Facility represents a bookable room such as a practice room or a
// meeting room.  Facilities are read-only while reservations are being
// made; only administrators create or delete them.  Deleting a facility
// removes all of its reservations.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the room.
//  Type        – category of the room (e.g. practice, meeting).
//  Capacity    – optional number of people the room holds.
//  Description – optional description.
//  ImageURL    – optional reference to a picture of the room.
//  CreatedAt   – creation timestamp.
type Facility struct {
    ID          uint64    `json:"id"`                    // facilities.id
    Name        string    `json:"name"`                  // facilities.name
    Type        string    `json:"type"`                  // facilities.type
    Capacity    *uint32   `json:"capacity,omitempty"`    // facilities.capacity (nullable)
    Description *string   `json:"description,omitempty"` // facilities.description (nullable)
    ImageURL    *string   `json:"image_url,omitempty"`   // facilities.image_url (nullable)
    CreatedAt   time.Time `json:"created_at"`            // facilities.created_at
}
