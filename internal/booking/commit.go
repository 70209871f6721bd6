package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
)

// Commit persists a validated reservation.  Inside one transaction it
// locks the facility row, looks for any reservation of the facility
// with start < end' and end > start', and inserts only when none is
// found.  The facility lock is held until commit, so two concurrent
// commits for the same facility run one after the other and the second
// sees the first one's row.
func (s *Service) Commit(ctx context.Context, v *Validated) (*model.Reservation, error) {
	res := v.Reservation
	res.Status = model.StatusConfirmed
	if !res.EndTime.After(res.StartTime) {
		return nil, invalid("end time must be after start time")
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = s.clock.Now().UTC()
	}

	err := s.reservations.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.reservations.LockFacility(txCtx, res.FacilityID); err != nil {
			if errors.Is(err, repository.ErrFacilityNotFound) {
				return notFound("facility %d", res.FacilityID)
			}
			return storageErr("lock facility", err)
		}
		overlaps, err := s.reservations.FindOverlapping(txCtx, res.FacilityID, res.StartTime, res.EndTime)
		if err != nil {
			return storageErr("find overlapping reservations", err)
		}
		if len(overlaps) > 0 {
			o := overlaps[0]
			return fmt.Errorf("%w: %s-%s is already reserved", ErrSlotConflict,
				o.StartTime.In(s.loc).Format("15:04"), o.EndTime.In(s.loc).Format("15:04"))
		}
		if err := s.reservations.Create(txCtx, &res); err != nil {
			return storageErr("create reservation", err)
		}
		return nil
	})
	if err != nil {
		if isFlowError(err) {
			return nil, err
		}
		return nil, storageErr("commit reservation", err)
	}

	s.notify(ctx, v.Facility, res)
	return &res, nil
}
