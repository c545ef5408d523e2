package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// AddShift implements shift.ShiftService.
func (s *ShiftServiceImpl) AddShift(ctx context.Context, req shift.AddShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	date, err := interval.ParseDate(req.ShiftDate)
	if err != nil {
		return shift.Shift{}, validator.ValidationErrors{{Field: "shift_date", Message: err.Error()}}
	}
	start, err := interval.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return shift.Shift{}, validator.ValidationErrors{{Field: "start_time", Message: err.Error()}}
	}
	end, err := interval.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return shift.Shift{}, validator.ValidationErrors{{Field: "end_time", Message: err.Error()}}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to generate shift id: %w", err)
	}

	now := s.now()
	candidate := shift.Shift{
		ID:             id.String(),
		ShiftDate:      date,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         shift.StatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	candStart, candEnd := candidate.Instants(s.loc)

	var created shift.Shift
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// An overnight shift anchored on the previous day can reach into date,
		// and one anchored on date can reach into the next day.
		neighbours, err := s.ShiftRepository.GetByDates(ctx, date.AddDays(-1), date, date.AddDays(1))
		if err != nil {
			return err
		}

		for _, n := range neighbours {
			if n.Status == shift.StatusAbsent {
				continue
			}
			nStart, nEnd := n.Instants(s.loc)
			if interval.Overlaps(candStart, candEnd, nStart, nEnd) {
				slog.Debug("shift overlaps existing shift",
					"shift_date", date.String(),
					"conflict_id", n.ID,
					"conflict_date", n.ShiftDate.String())
				return shift.ErrShiftOverlap
			}
		}

		created, err = s.ShiftRepository.Create(ctx, candidate)
		return err
	})
	if err != nil {
		return shift.Shift{}, err
	}

	slog.Info("shift scheduled",
		"shift_id", created.ID,
		"shift_date", created.ShiftDate.String(),
		"start", created.ScheduledStart.String(),
		"end", created.ScheduledEnd.String())
	return created, nil
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sh.Status != shift.StatusScheduled {
			return nil
		}
		deleted, err = s.ShiftRepository.DeleteScheduled(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
