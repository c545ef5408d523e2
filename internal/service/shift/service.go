package shift

import (
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	ledger shift.LedgerReader
	tx     shift.Transactor
	policy shift.Policy
	loc    *time.Location
	clock  func() time.Time
}

// NewShiftService builds the lifecycle engine. Dates and times of day are
// interpreted in loc; clock supplies "now" for driver actions and defaults
// to time.Now.
func NewShiftService(
	shiftRepo shift.ShiftRepository,
	ledgerReader shift.LedgerReader,
	tx shift.Transactor,
	policy shift.Policy,
	loc *time.Location,
	clock func() time.Time,
) *ShiftServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepo,
		ledger:          ledgerReader,
		tx:              tx,
		policy:          policy,
		loc:             loc,
		clock:           clock,
	}
}

var _ shift.ShiftService = (*ShiftServiceImpl)(nil)

// now returns the current instant in the service location, truncated to the
// second because persisted timestamps carry no fraction.
func (s *ShiftServiceImpl) now() time.Time {
	return s.clock().In(s.loc).Truncate(time.Second)
}
