// Package booking implements hourly facility reservations: the slot
// grid, per-day availability, validation of submitted forms and the
// overlap-safe commit that guarantees no facility is double-booked.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/clock"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
)

// FacilityStore looks facilities up by id.  A missing facility is
// reported as repository.ErrFacilityNotFound.
type FacilityStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Facility, error)
}

// ReservationStore is the persisted set of reservations.  Methods called
// inside WithTx run on the transaction carried by the context.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockFacility(ctx context.Context, facilityID uint64) error
	ListByFacilityBetween(ctx context.Context, facilityID uint64, from, to time.Time) ([]model.Reservation, error)
	FindOverlapping(ctx context.Context, facilityID uint64, start, end time.Time) ([]model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
}

// Notifier is told about every committed reservation.
type Notifier interface {
	NotifyConfirmed(ctx context.Context, f model.Facility, r model.Reservation) error
}

// Service ties the availability calculator, the validator and the
// commit path together.
type Service struct {
	facilities   FacilityStore
	reservations ReservationStore
	notifier     Notifier
	clock        clock.Clock
	loc          *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone the hour grid and "today" refer to.
// The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNotifier registers a notifier called after each successful commit.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService builds a Service.  facilities and reservations must be
// non-nil.
func NewService(facilities FacilityStore, reservations ReservationStore, clk clock.Clock, opts ...Option) *Service {
	if facilities == nil || reservations == nil {
		panic("nil store passed to booking.NewService")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	s := &Service{
		facilities:   facilities,
		reservations: reservations,
		clock:        clk,
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the booking time zone.
func (s *Service) Location() *time.Location { return s.loc }

// Today returns midnight of the current day in the booking location.
func (s *Service) Today() time.Time {
	return dayStart(s.clock.Now(), s.loc)
}

// ParseDate parses a "YYYY-MM-DD" string into midnight of that day in
// the booking location.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, invalid("date is required")
	}
	d, err := time.ParseInLocation(DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, invalid("date %q is not a valid YYYY-MM-DD date", raw)
	}
	return d, nil
}

// Reservable reports whether new reservations may be made on date.
// Only days strictly after today qualify; today and the past are view
// only.
func (s *Service) Reservable(date time.Time) bool {
	return !sameOrBeforeDay(date.In(s.loc), s.Today())
}

// Facility returns the facility with the given id or ErrNotFound.
func (s *Service) Facility(ctx context.Context, id uint64) (*model.Facility, error) {
	f, err := s.facilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return nil, notFound("facility %d", id)
		}
		return nil, storageErr("get facility", err)
	}
	return f, nil
}

// Reservation returns a committed reservation for confirmation display.
func (s *Service) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, notFound("reservation %d", id)
		}
		return nil, storageErr("get reservation", err)
	}
	return r, nil
}

// Reserve validates req and commits it.  It is the only way a
// reservation gets created.
func (s *Service) Reserve(ctx context.Context, req Request) (*model.Reservation, error) {
	v, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Commit(ctx, v)
}

func (s *Service) notify(ctx context.Context, f model.Facility, r model.Reservation) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyConfirmed(ctx, f, r); err != nil {
		log.Printf("booking: notify reservation %d: %v", r.ID, err)
	}
}

// DayReservations lists the reservations of a facility that start on
// date, ordered by start time.
func (s *Service) DayReservations(ctx context.Context, facilityID uint64, date time.Time) ([]model.Reservation, error) {
	if _, err := s.Facility(ctx, facilityID); err != nil {
		return nil, err
	}
	from := dayStart(date, s.loc)
	out, err := s.reservations.ListByFacilityBetween(ctx, facilityID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, storageErr("list reservations", err)
	}
	return out, nil
}
