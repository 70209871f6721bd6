package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHours(t *testing.T) {
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17}, Hours())
	assert.Len(t, Hours(), SlotsPerDay)
}

func TestValidHour(t *testing.T) {
	assert.False(t, ValidHour(8))
	assert.True(t, ValidHour(9))
	assert.True(t, ValidHour(17))
	assert.False(t, ValidHour(18))
}

func TestInterval(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, kst)
	start, end := Interval(day, 10, 13)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 0, 0, 0, kst), start)
	assert.Equal(t, time.Date(2026, 10, 18, 13, 0, 0, 0, kst), end)
	assert.Equal(t, "2026-10-18T01:00:00Z", start.UTC().Format(time.RFC3339))
}

func TestSlotInterval(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, kst)
	start, end := SlotInterval(day, 17)
	assert.Equal(t, time.Date(2026, 10, 18, 17, 0, 0, 0, kst), start)
	assert.Equal(t, time.Hour, end.Sub(start))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "09:00-10:00", SlotLabel(9))
	assert.Equal(t, "17:00-18:00", SlotLabel(17))
}

func TestClampHours(t *testing.T) {
	cases := []struct{ start, end, wantStart, wantEnd int }{
		{10, 12, 10, 12},
		{7, 10, 9, 10},
		{16, 20, 16, 18},
		{0, 24, 9, 18},
		{19, 21, 19, 18},
	}
	for _, tc := range cases {
		s, e := clampHours(tc.start, tc.end)
		assert.Equal(t, tc.wantStart, s, "start of [%d,%d)", tc.start, tc.end)
		assert.Equal(t, tc.wantEnd, e, "end of [%d,%d)", tc.start, tc.end)
	}
}

func TestSameOrBeforeDay(t *testing.T) {
	a := time.Date(2026, 10, 17, 23, 59, 0, 0, kst)
	b := time.Date(2026, 10, 17, 0, 0, 0, 0, kst)
	assert.True(t, sameOrBeforeDay(a, b))
	assert.True(t, sameOrBeforeDay(b.AddDate(0, 0, -1), b))
	assert.False(t, sameOrBeforeDay(b.AddDate(0, 0, 1), b))
}
