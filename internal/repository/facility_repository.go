package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// FacilityRepo provides methods to create, list and delete facilities.
type FacilityRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewFacilityRepo constructs a FacilityRepo with the given DB handle.
func NewFacilityRepo(db *sql.DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

const facilityColumns = `id, name, type, capacity, description, image_url, created_at`

// Create inserts a new facility.  Name and Type must be set.  After the
// insert the ID and CreatedAt fields are populated from the stored row.
// A duplicate name yields ErrConflict.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	const qInsert = `INSERT INTO facilities (name, type, capacity, description, image_url) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, f.Name, f.Type, f.Capacity, f.Description, f.ImageURL)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// GetByID retrieves a facility by its ID.  It returns ErrFacilityNotFound
// when no row is found.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities WHERE id = ?`
	f, err := scanFacility(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns every facility ordered by type and name.
func (r *FacilityRepo) List(ctx context.Context) ([]*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities ORDER BY type, name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a facility together with all of its reservations in a
// single transaction and returns how many reservations were removed.
// The facility row is locked first so no reservation can be committed
// for it while the delete runs.  ErrFacilityNotFound is returned when
// the facility does not exist.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	reservations := NewReservationRepo(r.db)
	var removed int64
	err := withTx(ctx, r.db, func(txCtx context.Context) error {
		if err := reservations.LockFacility(txCtx, id); err != nil {
			return err
		}
		n, err := reservations.DeleteByFacility(txCtx, id)
		if err != nil {
			return err
		}
		removed = n
		_, err = conn(txCtx, r.db).ExecContext(txCtx, `DELETE FROM facilities WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func scanFacility(s rowScanner) (*model.Facility, error) {
	var (
		f           model.Facility
		capacity    sql.NullInt64
		description sql.NullString
		imageURL    sql.NullString
	)
	if err := s.Scan(&f.ID, &f.Name, &f.Type, &capacity, &description, &imageURL, &f.CreatedAt); err != nil {
		return nil, err
	}
	if capacity.Valid {
		c := uint32(capacity.Int64)
		f.Capacity = &c
	}
	f.Description = nullableString(description)
	f.ImageURL = nullableString(imageURL)
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}
