package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow copies vals into the Scan destinations in order.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.vals))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uint64:
			*p = r.vals[i].(uint64)
		case *string:
			*p = r.vals[i].(string)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		case *[]byte:
			if r.vals[i] != nil {
				*p = r.vals[i].([]byte)
			}
		case *sql.NullString:
			if r.vals[i] != nil {
				*p = sql.NullString{String: r.vals[i].(string), Valid: true}
			}
		case *sql.NullInt64:
			if r.vals[i] != nil {
				*p = sql.NullInt64{Int64: r.vals[i].(int64), Valid: true}
			}
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanReservation(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	start := time.Date(2026, 10, 18, 10, 0, 0, 0, kst)
	row := fakeRow{vals: []any{
		uint64(4), uint64(1), "Kim", "010-1234-5678", "Nareum High",
		nil, nil, "CONFIRMED", start, start.Add(2 * time.Hour),
		[]byte(`{"teen":3}`), []byte(`["piano"]`), start,
	}}

	r, err := scanReservation(row)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), r.ID)
	assert.Equal(t, "confirmed", r.Status)
	require.NotNil(t, r.ApplicantSchool)
	assert.Equal(t, "Nareum High", *r.ApplicantSchool)
	assert.Nil(t, r.ApplicantClub)
	assert.Nil(t, r.ActivityDetails)
	assert.Equal(t, time.UTC, r.StartTime.Location())
	assert.True(t, r.StartTime.Equal(start))
	assert.Equal(t, map[string]int{"teen": 3}, r.ParticipantInfo)
	assert.Equal(t, []string{"piano"}, r.RequestedEquipment)
}

func TestScanReservation_EmptyJSONColumns(t *testing.T) {
	now := time.Now()
	row := fakeRow{vals: []any{
		uint64(1), uint64(1), "Kim", "010", nil,
		nil, nil, "confirmed", now, now.Add(time.Hour),
		nil, nil, now,
	}}
	r, err := scanReservation(row)
	require.NoError(t, err)
	assert.NotNil(t, r.ParticipantInfo)
	assert.Empty(t, r.ParticipantInfo)
	assert.NotNil(t, r.RequestedEquipment)
	assert.Empty(t, r.RequestedEquipment)
}

func TestScanReservation_BadJSON(t *testing.T) {
	now := time.Now()
	row := fakeRow{vals: []any{
		uint64(9), uint64(1), "Kim", "010", nil,
		nil, nil, "confirmed", now, now.Add(time.Hour),
		[]byte(`{"teen":"three"}`), nil, now,
	}}
	_, err := scanReservation(row)
	assert.ErrorContains(t, err, "participant_info of reservation 9")
}

func TestScanFacility(t *testing.T) {
	now := time.Now()
	f, err := scanFacility(fakeRow{vals: []any{uint64(2), "Hall", "meeting", int64(30), nil, "https://img/hall.png", now}})
	require.NoError(t, err)
	require.NotNil(t, f.Capacity)
	assert.Equal(t, uint32(30), *f.Capacity)
	assert.Nil(t, f.Description)
	require.NotNil(t, f.ImageURL)
	assert.Equal(t, "https://img/hall.png", *f.ImageURL)

	_, err = scanFacility(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Hall' for key 'uq_facilities_name'"}
	assert.True(t, isDuplicateKey(dup))
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isDuplicateKey(errors.New("boom")))
}

func TestLockFacility_RequiresTransaction(t *testing.T) {
	err := NewReservationRepo(nil).LockFacility(context.Background(), 1)
	assert.ErrorContains(t, err, "outside a transaction")
}

func TestHelpers(t *testing.T) {
	assert.Nil(t, nullableString(sql.NullString{}))
	assert.Equal(t, "x", *nullableString(sql.NullString{String: "x", Valid: true}))
	assert.Equal(t, map[string]int{}, nonNilMap(nil))
	assert.Equal(t, []string{}, nonNilSlice(nil))
	assert.Equal(t, "admin", normalizeUsername("  Admin "))
}
