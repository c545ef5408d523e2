package shift

import (
	"context"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
)

// ShiftService defines the shift lifecycle engine
type ShiftService interface {
	// AddShift validates and schedules a new shift, rejecting overlaps
	AddShift(ctx context.Context, req AddShiftRequest) (Shift, error)

	// DeleteShift removes a shift only while it is SCHEDULED
	DeleteShift(ctx context.Context, id string) (bool, error)

	// StartShift moves a SCHEDULED shift to ACTIVE
	StartShift(ctx context.Context, id string) (Shift, error)

	// ToggleBreak opens or closes a break on an ACTIVE shift
	ToggleBreak(ctx context.Context, id string, req ToggleBreakRequest) (BreakState, error)

	// EndShift finishes the given shift, or the active one when id is nil.
	// Returns nil when there is nothing to end.
	EndShift(ctx context.Context, id *string) (*Shift, error)

	GetShift(ctx context.Context, id string) (Shift, error)
	GetShiftsByDate(ctx context.Context, date string) ([]Shift, error)
	GetActiveShift(ctx context.Context) (*Shift, error)
	GetNextShift(ctx context.Context, now time.Time) (*Shift, error)
	ListShifts(ctx context.Context, req ListShiftsRequest) ([]Shift, error)

	// GetShiftStats computes the running summary without finishing the shift
	GetShiftStats(ctx context.Context, id string) (Summary, error)

	// GetDashboardStatus is read-only and safe to call every second
	GetDashboardStatus(ctx context.Context, now time.Time) (DashboardStatus, error)

	// IsOrderAllowed reports whether new orders may be recorded and why not
	IsOrderAllowed(ctx context.Context) (bool, string, error)

	// CheckAutoUpdates runs one sweep and returns the shift it auto-finished, if any.
	// Storage errors are logged and reported as nil.
	CheckAutoUpdates(ctx context.Context, now time.Time) *Shift
}

// LedgerReader is the part of the order/expense ledger the summary needs.
type LedgerReader interface {
	GetOrdersByShift(ctx context.Context, shiftID string) ([]ledger.Order, error)
	GetExpensesByShift(ctx context.Context, shiftID string) ([]ledger.Expense, error)
}
