package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// ReservationRepo provides access to the reservations table.  All
// timestamps are written and read in UTC.  Methods use the transaction
// carried by the context when called inside WithTx.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, facility_id, applicant_name, applicant_contact, applicant_school,
       applicant_club, activity_details, status, start_time, end_time,
       participant_info, requested_equipment, created_at`

// WithTx runs fn in a read-committed transaction.  Repository calls made
// with the context passed to fn participate in that transaction.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
    return withTx(ctx, r.db, fn)
}

// LockFacility takes a row lock on the facility so that concurrent
// commits for the same facility are serialised until the surrounding
// transaction ends.  It must be called inside WithTx.  It returns
// ErrFacilityNotFound when the facility does not exist.
func (r *ReservationRepo) LockFacility(ctx context.Context, facilityID uint64) error {
    tx := txFromContext(ctx)
    if tx == nil {
        return errors.New("LockFacility called outside a transaction")
    }
    var id uint64
    err := tx.QueryRowContext(ctx, `SELECT id FROM facilities WHERE id = ? FOR UPDATE`, facilityID).Scan(&id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrFacilityNotFound
        }
        return err
    }
    return nil
}

// ListByFacilityBetween returns the reservations of a facility whose
// start_time falls in [from, to), ordered by start time.  An empty
// slice is returned when there are none.
func (r *ReservationRepo) ListByFacilityBetween(ctx context.Context, facilityID uint64, from, to time.Time) ([]model.Reservation, error) {
    q := `SELECT ` + reservationColumns + `
          FROM reservations
          WHERE facility_id = ? AND start_time >= ? AND start_time < ?
          ORDER BY start_time`
    return r.list(ctx, q, facilityID, from.UTC(), to.UTC())
}

// FindOverlapping returns the reservations of a facility that intersect
// [start, end).  A reservation overlaps when it starts before end and
// ends after start, so intervals that only touch do not count.  Inside
// WithTx, call LockFacility first so no other writer can insert between
// this read and the caller's insert.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, facilityID uint64, start, end time.Time) ([]model.Reservation, error) {
    q := `SELECT ` + reservationColumns + `
          FROM reservations
          WHERE facility_id = ? AND start_time < ? AND end_time > ?
          ORDER BY start_time`
    return r.list(ctx, q, facilityID, end.UTC(), start.UTC())
}

// Create inserts a new reservation and populates its generated ID.
// A zero CreatedAt is set to the current time.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    participants, err := json.Marshal(nonNilMap(res.ParticipantInfo))
    if err != nil {
        return fmt.Errorf("encode participant_info: %w", err)
    }
    equipment, err := json.Marshal(nonNilSlice(res.RequestedEquipment))
    if err != nil {
        return fmt.Errorf("encode requested_equipment: %w", err)
    }
    if res.CreatedAt.IsZero() {
        res.CreatedAt = time.Now().UTC()
    }
    const q = `INSERT INTO reservations
               (facility_id, applicant_name, applicant_contact, applicant_school, applicant_club,
                activity_details, status, start_time, end_time, participant_info, requested_equipment, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q,
        res.FacilityID, res.ApplicantName, res.ApplicantContact, res.ApplicantSchool, res.ApplicantClub,
        res.ActivityDetails, res.Status, res.StartTime.UTC(), res.EndTime.UTC(),
        string(participants), string(equipment), res.CreatedAt.UTC(),
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    return nil
}

// GetByID returns a single reservation.  ErrReservationNotFound is
// returned when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(conn(ctx, r.db).QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// DeleteByFacility removes every reservation of a facility and returns
// the number of rows deleted.
func (r *ReservationRepo) DeleteByFacility(ctx context.Context, facilityID uint64) (int64, error) {
    result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM reservations WHERE facility_id = ?`, facilityID)
    if err != nil {
        return 0, err
    }
    return result.RowsAffected()
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
    var (
        res                     model.Reservation
        school, club, details   sql.NullString
        participants, equipment []byte
    )
    if err := s.Scan(
        &res.ID, &res.FacilityID, &res.ApplicantName, &res.ApplicantContact, &school,
        &club, &details, &res.Status, &res.StartTime, &res.EndTime,
        &participants, &equipment, &res.CreatedAt,
    ); err != nil {
        return nil, err
    }
    res.ApplicantSchool = nullableString(school)
    res.ApplicantClub = nullableString(club)
    res.ActivityDetails = nullableString(details)
    res.StartTime = res.StartTime.UTC()
    res.EndTime = res.EndTime.UTC()
    res.CreatedAt = res.CreatedAt.UTC()
    res.Status = strings.ToLower(res.Status)

    res.ParticipantInfo = map[string]int{}
    if len(participants) > 0 {
        if err := json.Unmarshal(participants, &res.ParticipantInfo); err != nil {
            return nil, fmt.Errorf("decode participant_info of reservation %d: %w", res.ID, err)
        }
    }
    res.RequestedEquipment = []string{}
    if len(equipment) > 0 {
        if err := json.Unmarshal(equipment, &res.RequestedEquipment); err != nil {
            return nil, fmt.Errorf("decode requested_equipment of reservation %d: %w", res.ID, err)
        }
    }
    return &res, nil
}

func nullableString(ns sql.NullString) *string {
    if !ns.Valid {
        return nil
    }
    s := ns.String
    return &s
}

func nonNilMap(m map[string]int) map[string]int {
    if m == nil {
        return map[string]int{}
    }
    return m
}

func nonNilSlice(s []string) []string {
    if s == nil {
        return []string{}
    }
    return s
}
