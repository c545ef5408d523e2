package shift

import (
	"context"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
)

// ShiftRepository defines data access methods for shift records.
// Every method runs on the transaction carried by ctx when there is one.
type ShiftRepository interface {
	// Create inserts a new shift
	Create(ctx context.Context, s Shift) (Shift, error)

	// GetByID returns ErrShiftNotFound for unknown ids
	GetByID(ctx context.Context, id string) (Shift, error)

	// GetByDates returns shifts anchored on any of the given dates, ordered by date and start
	GetByDates(ctx context.Context, dates ...interval.Date) ([]Shift, error)

	// GetByStatus returns every shift in the given status
	GetByStatus(ctx context.Context, status Status) ([]Shift, error)

	// GetActive returns the single ACTIVE shift, or nil
	GetActive(ctx context.Context) (*Shift, error)

	// GetNextScheduled returns the earliest SCHEDULED shift starting after the minute of now, or nil
	GetNextScheduled(ctx context.Context, now time.Time) (*Shift, error)

	List(ctx context.Context, filter ShiftFilter) ([]Shift, error)

	// Update writes s only if the stored status still equals expected.
	// Returns ErrShiftStateChanged otherwise.
	Update(ctx context.Context, s Shift, expected Status) error

	// DeleteScheduled removes a SCHEDULED shift and reports whether a row was removed
	DeleteScheduled(ctx context.Context, id string) (bool, error)
}

// Transactor runs fn inside one store transaction. Store writers are
// serialized so check-then-write sequences inside fn are atomic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
