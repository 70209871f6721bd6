package booking

import (
	"encoding/json"
	"strings"
)

// Request is the reservation form as submitted by a visitor.  It binds
// from either a JSON body or an HTML form.  FacilityID comes from the
// URL path and is set by the handler.
type Request struct {
	FacilityID         uint64         `json:"-"`
	Date               string         `json:"date" form:"date"`
	Slots              []int          `json:"slots" form:"slots"`
	ApplicantName      string         `json:"applicant_name" form:"applicant_name"`
	ApplicantContact   string         `json:"applicant_contact" form:"applicant_contact"`
	ApplicantSchool    string         `json:"applicant_school" form:"applicant_school"`
	ApplicantClub      string         `json:"applicant_club" form:"applicant_club"`
	ActivityDetails    string         `json:"activity_details" form:"activity_details"`
	ParticipantInfo    map[string]int `json:"participant_info"`
	RequestedEquipment []string       `json:"requested_equipment" form:"requested_equipment"`
	Agree              Flag           `json:"agree" form:"agree"`
}

// Flag is a consent checkbox.  HTML forms send "on" for a ticked box and
// omit the field otherwise; JSON clients may send a bool or a string.
type Flag bool

// UnmarshalParam implements echo.BindUnmarshaler for form and query values.
func (f *Flag) UnmarshalParam(s string) error {
	*f = Flag(truthy(s))
	return nil
}

// UnmarshalJSON accepts true/false as well as the string spellings
// understood by truthy.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = Flag(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = Flag(truthy(s))
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "y", "agree", "agreed":
		return true
	}
	return false
}
