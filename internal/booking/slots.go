package booking

import (
	"fmt"
	"time"
)

// The booking day is a fixed grid of one-hour slots.  Slot h covers
// [h:00, h+1:00) and h ranges over [OpenHour, CloseHour).
const (
	OpenHour    = 9
	CloseHour   = 18
	SlotsPerDay = CloseHour - OpenHour
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Hours returns the slot hours of a booking day in ascending order.
func Hours() []int {
	out := make([]int, 0, SlotsPerDay)
	for h := OpenHour; h < CloseHour; h++ {
		out = append(out, h)
	}
	return out
}

// ValidHour reports whether h is a slot of the booking day.
func ValidHour(h int) bool {
	return h >= OpenHour && h < CloseHour
}

// Interval returns the instants [startHour:00, endHour:00) on date, in
// the location carried by date.
func Interval(date time.Time, startHour, endHour int) (time.Time, time.Time) {
	y, m, d := date.Date()
	loc := date.Location()
	return time.Date(y, m, d, startHour, 0, 0, 0, loc), time.Date(y, m, d, endHour, 0, 0, 0, loc)
}

// SlotInterval returns the one-hour interval of slot h on date.
func SlotInterval(date time.Time, h int) (time.Time, time.Time) {
	return Interval(date, h, h+1)
}

// SlotLabel renders slot h as "HH:00-HH:00".
func SlotLabel(h int) string {
	return fmt.Sprintf("%02d:00-%02d:00", h, h+1)
}

// clampHours intersects [start, end) with the booking window.  The
// returned range is empty (start >= end) when nothing remains.
func clampHours(start, end int) (int, int) {
	if start < OpenHour {
		start = OpenHour
	}
	if end > CloseHour {
		end = CloseHour
	}
	return start, end
}

// dayStart returns midnight of the calendar day of t in loc.
func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// sameOrBeforeDay reports whether the calendar day of a is on or before
// the calendar day of b.  Both are compared by their Y/M/D fields so
// the result does not depend on the length of the day.
func sameOrBeforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ca := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	cb := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return !ca.After(cb)
}
