package shift

import (
	"context"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
)

// GetDashboardStatus implements shift.ShiftService. It only reads.
func (s *ShiftServiceImpl) GetDashboardStatus(ctx context.Context, now time.Time) (shift.DashboardStatus, error) {
	now = now.In(s.loc)

	active, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return shift.DashboardStatus{}, err
	}

	if active != nil {
		if active.BreakActive && active.BreakStart != nil {
			elapsed := now.Sub(*active.BreakStart)
			if elapsed < 0 {
				elapsed = 0
			}
			st := shift.DashboardStatus{State: shift.StateBreak, Shift: active, Elapsed: &elapsed}
			if active.BreakPlannedDuration != nil {
				remaining := time.Duration(*active.BreakPlannedDuration)*time.Minute - elapsed
				if remaining < 0 {
					remaining = 0
				}
				st.Remaining = &remaining
			}
			return st, nil
		}

		_, end := active.Instants(s.loc)
		remaining := end.Sub(now)
		return shift.DashboardStatus{State: shift.StateShiftActive, Shift: active, Remaining: &remaining}, nil
	}

	// Only shifts anchored today are considered; later days show on the calendar.
	today, err := s.ShiftRepository.GetByDates(ctx, interval.DateOf(now))
	if err != nil {
		return shift.DashboardStatus{}, err
	}
	for i := range today {
		sh := today[i]
		if sh.Status != shift.StatusScheduled {
			continue
		}
		start, end := sh.Instants(s.loc)
		if !now.Before(end) {
			continue
		}
		wait := start.Sub(now)
		return shift.DashboardStatus{State: shift.StateNextUpcoming, Shift: &sh, Wait: &wait}, nil
	}

	return shift.DashboardStatus{State: shift.StateNoShift}, nil
}

// IsOrderAllowed implements shift.ShiftService.
func (s *ShiftServiceImpl) IsOrderAllowed(ctx context.Context) (bool, string, error) {
	active, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return false, "", err
	}
	if active == nil {
		return false, "no active shift", nil
	}
	if active.BreakActive {
		return false, "shift is on break", nil
	}
	return true, "", nil
}
