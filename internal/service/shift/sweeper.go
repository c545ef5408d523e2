package shift

import (
	"context"
	"log/slog"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
)

// Sweep applies the time-driven transitions due at now: ACTIVE shifts past
// their end (plus grace) are finished, SCHEDULED shifts past their end (plus
// grace) become ABSENT. Only shifts still in those states are touched, so
// repeated calls are harmless. It returns the shift it finished, if any.
func (s *ShiftServiceImpl) Sweep(ctx context.Context, now time.Time) (*shift.Shift, error) {
	now = now.In(s.loc).Truncate(time.Second)

	var (
		finished *shift.Shift
		absent   int
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		actives, err := s.ShiftRepository.GetByStatus(ctx, shift.StatusActive)
		if err != nil {
			return err
		}
		for _, a := range actives {
			_, end := a.Instants(s.loc)
			if now.Before(end.Add(s.policy.AutoFinishGrace)) {
				continue
			}
			id := a.ID
			f, err := s.endShift(ctx, &id, now)
			if err != nil {
				return err
			}
			if finished == nil {
				finished = f
			}
		}

		scheduled, err := s.ShiftRepository.GetByStatus(ctx, shift.StatusScheduled)
		if err != nil {
			return err
		}
		for _, sc := range scheduled {
			_, end := sc.Instants(s.loc)
			if now.Before(end.Add(s.policy.AbsentGrace)) {
				continue
			}
			sc.Status = shift.StatusAbsent
			sc.UpdatedAt = now
			if err := s.ShiftRepository.Update(ctx, sc, shift.StatusScheduled); err != nil {
				return err
			}
			absent++
			slog.Info("shift marked absent", "shift_id", sc.ID, "shift_date", sc.ShiftDate.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished != nil {
		slog.Info("shift auto-finished", "shift_id", finished.ID, "shift_date", finished.ShiftDate.String())
	}
	if finished != nil || absent > 0 {
		slog.Debug("shift sweep applied", "finished", finished != nil, "absent", absent)
	}
	return finished, nil
}

// CheckAutoUpdates implements shift.ShiftService.
func (s *ShiftServiceImpl) CheckAutoUpdates(ctx context.Context, now time.Time) *shift.Shift {
	finished, err := s.Sweep(ctx, now)
	if err != nil {
		slog.Error("shift sweep failed", "error", err)
		return nil
	}
	return finished
}
