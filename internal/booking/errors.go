package booking

import (
	"errors"
	"fmt"
)

// Failure reasons returned by the reservation flow.  Every one of them
// is recoverable by resubmitting; callers match with errors.Is and show
// err.Error() as the human readable reason.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrDateNotReservable  = errors.New("date is not reservable")
	ErrNotFound           = errors.New("not found")
	ErrNoSlotSelected     = errors.New("no slot selected")
	ErrNonContiguousSlots = errors.New("selected slots are not contiguous")
	ErrConsentRequired    = errors.New("consent is required")
	ErrSlotConflict       = errors.New("requested slots overlap an existing reservation")
	ErrStorage            = errors.New("storage error")
)

// StorageError wraps a failure of the underlying store.  It matches
// ErrStorage with errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// isFlowError reports whether err already carries one of the failure
// reasons above, so it can be returned to the caller unchanged.
func isFlowError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest, ErrDateNotReservable, ErrNotFound, ErrNoSlotSelected,
		ErrNonContiguousSlots, ErrConsentRequired, ErrSlotConflict, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}
