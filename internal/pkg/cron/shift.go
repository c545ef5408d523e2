package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/sse"
)

// EventShiftFinished is pushed to status streams when the sweep ends a shift.
const EventShiftFinished = "shift_finished"

// Sweeper applies time-driven shift transitions.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (*shift.Shift, error)
}

type ShiftJobs struct {
	sweeper Sweeper
	hub     *sse.Hub
	clock   func() time.Time
}

func NewShiftJobs(sweeper Sweeper, hub *sse.Hub, clock func() time.Time) *ShiftJobs {
	if clock == nil {
		clock = time.Now
	}
	return &ShiftJobs{
		sweeper: sweeper,
		hub:     hub,
		clock:   clock,
	}
}

func (j *ShiftJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) error {
	return scheduler.AddJob("sweep_shifts", interval, j.SweepShifts)
}

// SweepShifts finishes overdue active shifts and marks missed ones absent.
func (j *ShiftJobs) SweepShifts(ctx context.Context) error {
	finished, err := j.sweeper.Sweep(ctx, j.clock())
	if err != nil {
		return fmt.Errorf("failed to sweep shifts: %w", err)
	}
	if finished != nil && j.hub != nil {
		j.hub.Broadcast(sse.Event{
			Name: EventShiftFinished,
			Data: shift.NewShiftResponse(*finished),
		})
		slog.Info("shift finished event sent", "shift_id", finished.ID, "listeners", j.hub.TotalSubscribers())
	}
	return nil
}
