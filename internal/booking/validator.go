package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// Column widths of the reservations table.
const (
	maxNameLen    = 100
	maxContactLen = 20
	maxSchoolLen  = 100
	maxClubLen    = 100
	maxLabelLen   = 50
)

// Validated is a request that passed every check.  Reservation holds
// the derived interval and all captured fields; it has no ID yet.
type Validated struct {
	Facility    model.Facility
	Hours       []int
	Reservation model.Reservation
}

// Validate checks req in a fixed order and stops at the first failure:
// date format, date window, facility existence, slot selection, slot
// continuity, consent, then applicant fields.  Nothing is persisted.
func (s *Service) Validate(ctx context.Context, req Request) (*Validated, error) {
	date, err := s.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, err
	}
	if !s.Reservable(date) {
		return nil, fmt.Errorf("%w: %s is not after today (%s)", ErrDateNotReservable,
			date.Format(DateLayout), s.Today().Format(DateLayout))
	}
	facility, err := s.Facility(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}
	if len(req.Slots) == 0 {
		return nil, ErrNoSlotSelected
	}
	hours, err := normalizeHours(req.Slots)
	if err != nil {
		return nil, err
	}
	if !req.Agree {
		return nil, ErrConsentRequired
	}

	res := model.Reservation{
		FacilityID:         facility.ID,
		Status:             model.StatusConfirmed,
		ParticipantInfo:    map[string]int{},
		RequestedEquipment: []string{},
	}
	if res.ApplicantName, err = requiredText("applicant_name", req.ApplicantName, maxNameLen); err != nil {
		return nil, err
	}
	if res.ApplicantContact, err = requiredText("applicant_contact", req.ApplicantContact, maxContactLen); err != nil {
		return nil, err
	}
	if res.ApplicantSchool, err = optionalText("applicant_school", req.ApplicantSchool, maxSchoolLen); err != nil {
		return nil, err
	}
	if res.ApplicantClub, err = optionalText("applicant_club", req.ApplicantClub, maxClubLen); err != nil {
		return nil, err
	}
	if res.ActivityDetails, err = optionalText("activity_details", req.ActivityDetails, 0); err != nil {
		return nil, err
	}
	for label, n := range req.ParticipantInfo {
		label = strings.TrimSpace(label)
		if label == "" || utf8.RuneCountInString(label) > maxLabelLen {
			return nil, invalid("participant label %q is not valid", label)
		}
		if n < 0 {
			return nil, invalid("participant count for %q must not be negative", label)
		}
		res.ParticipantInfo[label] += n
	}
	res.RequestedEquipment = normalizeEquipment(req.RequestedEquipment)

	res.StartTime, res.EndTime = Interval(date, hours[0], hours[len(hours)-1]+1)
	return &Validated{Facility: *facility, Hours: hours, Reservation: res}, nil
}

// normalizeHours de-duplicates and sorts the selected hours, then checks
// that each lies in the booking window and that together they form one
// unbroken run.
func normalizeHours(slots []int) ([]int, error) {
	seen := make(map[int]struct{}, len(slots))
	hours := make([]int, 0, len(slots))
	for _, h := range slots {
		if !ValidHour(h) {
			return nil, invalid("slot %d is outside %02d:00-%02d:00", h, OpenHour, CloseHour)
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hours = append(hours, h)
	}
	sort.Ints(hours)
	for i := 1; i < len(hours); i++ {
		if hours[i]-hours[i-1] != 1 {
			return nil, fmt.Errorf("%w: gap between %02d:00 and %02d:00", ErrNonContiguousSlots, hours[i-1]+1, hours[i])
		}
	}
	return hours, nil
}

func requiredText(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("%s is required", field)
	}
	if max > 0 && utf8.RuneCountInString(v) > max {
		return "", invalid("%s must be at most %d characters", field, max)
	}
	return v, nil
}

func optionalText(field, v string, max int) (*string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if max > 0 && utf8.RuneCountInString(v) > max {
		return nil, invalid("%s must be at most %d characters", field, max)
	}
	return &v, nil
}

// normalizeEquipment trims labels, drops blanks and keeps the first
// occurrence of each label.
func normalizeEquipment(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
