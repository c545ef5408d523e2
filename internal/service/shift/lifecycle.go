package shift

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
)

// StartShift implements shift.ShiftService.
func (s *ShiftServiceImpl) StartShift(ctx context.Context, id string) (shift.Shift, error) {
	now := s.now()

	var started shift.Shift
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sh.Status != shift.StatusScheduled {
			return fmt.Errorf("%w: cannot start shift with status %s", shift.ErrInvalidStatus, sh.Status)
		}

		active, err := s.ShiftRepository.GetActive(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return shift.ErrAnotherShiftActive
		}

		scheduledStart, _ := sh.Instants(s.loc)
		if until := scheduledStart.Sub(now); until > s.policy.EarlyStartWindow {
			wait := until - s.policy.EarlyStartWindow
			return &shift.TooEarlyError{WaitMinutes: int(math.Ceil(wait.Minutes()))}
		}

		sh.Status = shift.StatusActive
		sh.ActualStart = &now
		sh.IsLate = s.policy.LatePolicy.IsLate(now, scheduledStart)
		sh.UpdatedAt = now
		if err := s.ShiftRepository.Update(ctx, sh, shift.StatusScheduled); err != nil {
			return err
		}
		started = sh
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}

	slog.Info("shift started", "shift_id", started.ID, "is_late", started.IsLate)
	return started, nil
}

// closeBreak folds the open break into the accumulated break time.
func closeBreak(sh *shift.Shift, now time.Time) {
	if sh.BreakStart != nil {
		elapsed := now.Sub(*sh.BreakStart)
		if elapsed > 0 {
			sh.TotalBreakTime += int(elapsed / time.Second)
		}
	}
	sh.BreakActive = false
	sh.BreakStart = nil
	sh.BreakPlannedDuration = nil
	sh.BreakEnd = &now
}

// ToggleBreak implements shift.ShiftService.
func (s *ShiftServiceImpl) ToggleBreak(ctx context.Context, id string, req shift.ToggleBreakRequest) (shift.BreakState, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	now := s.now()

	var state shift.BreakState
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sh.Status != shift.StatusActive {
			return shift.ErrShiftNotActive
		}

		if sh.BreakActive {
			closeBreak(&sh, now)
			state = shift.BreakInactive
		} else {
			sh.BreakActive = true
			sh.BreakStart = &now
			sh.BreakEnd = nil
			sh.BreakPlannedDuration = req.PlannedMinutes
			state = shift.BreakActive
		}
		sh.UpdatedAt = now
		return s.ShiftRepository.Update(ctx, sh, shift.StatusActive)
	})
	if err != nil {
		return "", err
	}

	slog.Info("shift break toggled", "shift_id", id, "state", state)
	return state, nil
}

// EndShift implements shift.ShiftService.
func (s *ShiftServiceImpl) EndShift(ctx context.Context, id *string) (*shift.Shift, error) {
	now := s.now()

	var finished *shift.Shift
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		finished, err = s.endShift(ctx, id, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if finished != nil {
		slog.Info("shift ended", "shift_id", finished.ID, "total_orders", finished.Summary.Orders)
	}
	return finished, nil
}

// endShift must run inside a transaction. With a nil id it ends the active
// shift and returns nil when there is none.
func (s *ShiftServiceImpl) endShift(ctx context.Context, id *string, now time.Time) (*shift.Shift, error) {
	var target shift.Shift
	if id == nil {
		active, err := s.ShiftRepository.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		if active == nil {
			return nil, nil
		}
		target = *active
	} else {
		sh, err := s.ShiftRepository.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if sh.Status != shift.StatusActive {
			return nil, shift.ErrShiftNotActive
		}
		target = sh
	}

	if target.BreakActive {
		closeBreak(&target, now)
	}

	summary, err := s.summarize(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	target.Status = shift.StatusFinished
	target.ActualEnd = &now
	target.Summary = &summary
	target.UpdatedAt = now
	if err := s.ShiftRepository.Update(ctx, target, shift.StatusActive); err != nil {
		return nil, err
	}
	return &target, nil
}
