package shift

import (
	"errors"
	"fmt"
)

// Shift domain errors
var (
	// Scheduling errors
	ErrShiftOverlap = errors.New("shift overlaps an existing shift")

	// Lifecycle errors
	ErrShiftNotFound      = errors.New("shift not found")
	ErrInvalidStatus      = errors.New("shift is not in a valid status for this action")
	ErrAnotherShiftActive = errors.New("another shift is already active")
	ErrTooEarlyToStart    = errors.New("too early to start shift")
	ErrShiftNotActive     = errors.New("shift is not active")

	// ErrShiftStateChanged is returned by conditional updates when the stored
	// status no longer matches the expected one.
	ErrShiftStateChanged = errors.New("shift status changed concurrently")
)

// TooEarlyError carries how long the driver still has to wait before the
// shift can be started.
type TooEarlyError struct {
	WaitMinutes int
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("too early to start shift, available in %d minutes", e.WaitMinutes)
}

func (e *TooEarlyError) Unwrap() error {
	return ErrTooEarlyToStart
}

// IsConflict reports whether err is a state or scheduling conflict the
// caller can show to the driver and retry later.
func IsConflict(err error) bool {
	return errors.Is(err, ErrShiftOverlap) ||
		errors.Is(err, ErrAnotherShiftActive) ||
		errors.Is(err, ErrTooEarlyToStart) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrShiftNotActive) ||
		errors.Is(err, ErrShiftStateChanged)
}
