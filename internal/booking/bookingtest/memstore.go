// Package bookingtest provides an in-memory store for exercising the
// booking service without MySQL.
package bookingtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
)

type txKey struct{}

type memTx struct {
	pending []model.Reservation
}

// MemStore implements booking.FacilityStore and booking.ReservationStore.
// WithTx holds a store-wide lock for the whole callback, which stands in
// for the facility row lock of the MySQL store.  Rows created inside a
// transaction become visible to others only after it succeeds.
type MemStore struct {
	txMu sync.Mutex // held by WithTx

	mu           sync.Mutex
	facilities   map[uint64]model.Facility
	reservations []model.Reservation
	nextID       uint64

	// Injected failures, returned by the matching method when set.
	ListErr   error
	LockErr   error
	CreateErr error
	GetErr    error

	// BeforeCreate, if set, runs inside the transaction just before the
	// insert.  Tests use it to widen race windows.
	BeforeCreate func()
}

// NewMemStore returns a store holding the given facilities.
func NewMemStore(facilities ...model.Facility) *MemStore {
	s := &MemStore{facilities: map[uint64]model.Facility{}}
	for _, f := range facilities {
		s.facilities[f.ID] = f
	}
	return s
}

// AddFacility registers f.
func (s *MemStore) AddFacility(f model.Facility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[f.ID] = f
}

// Seed inserts reservations directly, bypassing the overlap check.
func (s *MemStore) Seed(rs ...model.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.nextID++
		if r.ID == 0 {
			r.ID = s.nextID
		}
		s.reservations = append(s.reservations, r)
	}
}

// All returns a copy of the committed reservations ordered by start.
func (s *MemStore) All() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Reservation(nil), s.reservations...)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// GetByID implements booking.FacilityStore.
func (s *MemStore) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, repository.ErrFacilityNotFound
	}
	return &f, nil
}

// Facilities adapts the store to the facility-only view.
func (s *MemStore) Facilities() FacilityView { return FacilityView{s} }

// Reservations adapts the store to booking.ReservationStore, whose
// GetByID looks up reservations instead of facilities.
func (s *MemStore) Reservations() ReservationView { return ReservationView{s} }

// FacilityView is the booking.FacilityStore side of a MemStore.
type FacilityView struct{ s *MemStore }

// GetByID returns the facility with id.
func (v FacilityView) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	return v.s.GetByID(ctx, id)
}

// List returns every facility ordered by id.
func (v FacilityView) List(ctx context.Context) ([]*model.Facility, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]*model.Facility, 0, len(v.s.facilities))
	for _, f := range v.s.facilities {
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create adds f with the next free id.  Duplicate names conflict.
func (v FacilityView) Create(ctx context.Context, f *model.Facility) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var max uint64
	for id, existing := range v.s.facilities {
		if existing.Name == f.Name {
			return repository.ErrConflict
		}
		if id > max {
			max = id
		}
	}
	f.ID = max + 1
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	v.s.facilities[f.ID] = *f
	return nil
}

// Delete removes the facility and its reservations.
func (v FacilityView) Delete(ctx context.Context, id uint64) (int64, error) {
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.facilities[id]; !ok {
		return 0, repository.ErrFacilityNotFound
	}
	delete(v.s.facilities, id)
	kept := v.s.reservations[:0]
	var removed int64
	for _, r := range v.s.reservations {
		if r.FacilityID == id {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	v.s.reservations = kept
	return removed, nil
}

// ReservationView is the booking.ReservationStore side of a MemStore.
type ReservationView struct{ s *MemStore }

// WithTx runs fn while holding the store lock.  Reservations created by
// fn are kept only when it returns nil.
func (v ReservationView) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(ctx)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	tx := &memTx{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	v.s.mu.Lock()
	v.s.reservations = append(v.s.reservations, tx.pending...)
	v.s.mu.Unlock()
	return nil
}

// LockFacility checks that the facility exists.  It must run inside WithTx.
func (v ReservationView) LockFacility(ctx context.Context, facilityID uint64) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); !ok {
		return errors.New("LockFacility called outside a transaction")
	}
	if v.s.LockErr != nil {
		return v.s.LockErr
	}
	_, err := v.s.GetByID(ctx, facilityID)
	return err
}

// ListByFacilityBetween returns reservations starting in [from, to).
func (v ReservationView) ListByFacilityBetween(ctx context.Context, facilityID uint64, from, to time.Time) ([]model.Reservation, error) {
	if v.s.ListErr != nil {
		return nil, v.s.ListErr
	}
	return v.filter(ctx, func(r model.Reservation) bool {
		return r.FacilityID == facilityID && !r.StartTime.Before(from) && r.StartTime.Before(to)
	}), nil
}

// FindOverlapping returns reservations with start < end and end > start.
func (v ReservationView) FindOverlapping(ctx context.Context, facilityID uint64, start, end time.Time) ([]model.Reservation, error) {
	return v.filter(ctx, func(r model.Reservation) bool {
		return r.FacilityID == facilityID && r.Overlaps(start, end)
	}), nil
}

// Create assigns an id and stages r in the current transaction, or
// stores it directly outside one.
func (v ReservationView) Create(ctx context.Context, r *model.Reservation) error {
	if v.s.BeforeCreate != nil {
		v.s.BeforeCreate()
	}
	if v.s.CreateErr != nil {
		return v.s.CreateErr
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.nextID++
	r.ID = v.s.nextID
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		tx.pending = append(tx.pending, *r)
		return nil
	}
	v.s.reservations = append(v.s.reservations, *r)
	return nil
}

// GetByID returns a committed reservation.
func (v ReservationView) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	if v.s.GetErr != nil {
		return nil, v.s.GetErr
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, r := range v.s.reservations {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repository.ErrReservationNotFound
}

func (v ReservationView) filter(ctx context.Context, keep func(model.Reservation) bool) []model.Reservation {
	v.s.mu.Lock()
	rows := append([]model.Reservation(nil), v.s.reservations...)
	v.s.mu.Unlock()
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		rows = append(rows, tx.pending...)
	}
	out := make([]model.Reservation, 0)
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}
