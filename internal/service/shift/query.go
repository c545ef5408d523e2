package shift

import (
	"context"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
)

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.Shift, error) {
	return s.ShiftRepository.GetByID(ctx, id)
}

// GetShiftsByDate implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShiftsByDate(ctx context.Context, date string) ([]shift.Shift, error) {
	d, err := interval.ParseDate(date)
	if err != nil {
		return nil, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return s.ShiftRepository.GetByDates(ctx, d)
}

// GetActiveShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetActiveShift(ctx context.Context) (*shift.Shift, error) {
	return s.ShiftRepository.GetActive(ctx)
}

// GetNextShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetNextShift(ctx context.Context, now time.Time) (*shift.Shift, error) {
	return s.ShiftRepository.GetNextScheduled(ctx, now.In(s.loc))
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, req shift.ListShiftsRequest) ([]shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.ShiftRepository.List(ctx, req.ToFilter())
}
