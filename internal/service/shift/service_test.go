package shift_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
	"github.com/driverwallet/shift-backend-go/internal/repository/sqlite"
	shiftService "github.com/driverwallet/shift-backend-go/internal/service/shift"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc    *shiftService.ShiftServiceImpl
	ledger ledger.LedgerRepository
	clock  *fakeClock
	db     *database.SQLiteDB
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := interval.ParseTimestamp(s, time.UTC)
	require.NoError(t, err)
	return ts
}

func newFixture(t *testing.T, policy shift.Policy) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "shift.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(ctx, db))

	clock := &fakeClock{t: at(t, "2026-03-01 08:00:00")}
	ledgerRepo := sqlite.NewLedgerRepository(db, time.UTC)
	svc := shiftService.NewShiftService(
		sqlite.NewShiftRepository(db, time.UTC),
		ledgerRepo,
		sqlite.NewTransactor(db),
		policy,
		time.UTC,
		clock.Now,
	)
	return &fixture{svc: svc, ledger: ledgerRepo, clock: clock, db: db}
}

func (f *fixture) add(t *testing.T, date, start, end string) shift.Shift {
	t.Helper()
	s, err := f.svc.AddShift(context.Background(), shift.AddShiftRequest{ShiftDate: date, StartTime: start, EndTime: end})
	require.NoError(t, err)
	return s
}

func (f *fixture) start(t *testing.T, id string, now string) shift.Shift {
	t.Helper()
	f.clock.Set(at(t, now))
	s, err := f.svc.StartShift(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestAddShift(t *testing.T) {
	ctx := context.Background()

	t.Run("overlapping shift is rejected", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		f.add(t, "2026-03-01", "10:00", "14:00")

		_, err := f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-01", StartTime: "12:00", EndTime: "16:00"})
		assert.ErrorIs(t, err, shift.ErrShiftOverlap)
		assert.True(t, shift.IsConflict(err))
	})

	t.Run("touching boundaries are allowed", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		f.add(t, "2026-03-01", "10:00", "14:00")

		s, err := f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-01", StartTime: "14:00", EndTime: "18:00"})
		require.NoError(t, err)
		assert.Equal(t, shift.StatusScheduled, s.Status)
		assert.NotEmpty(t, s.ID)
	})

	t.Run("overnight shift blocks the next morning", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		f.add(t, "2026-03-01", "22:00", "02:00")

		_, err := f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-02", StartTime: "01:00", EndTime: "03:00"})
		assert.ErrorIs(t, err, shift.ErrShiftOverlap)

		_, err = f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-02", StartTime: "02:00", EndTime: "06:00"})
		assert.NoError(t, err)
	})

	t.Run("next day shift blocks an overnight candidate", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		f.add(t, "2026-03-02", "01:00", "03:00")

		_, err := f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-01", StartTime: "23:00", EndTime: "02:00"})
		assert.ErrorIs(t, err, shift.ErrShiftOverlap)
	})

	t.Run("absent shifts do not block", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		missed := f.add(t, "2026-03-01", "10:00", "14:00")
		f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 15:00:00"))

		got, err := f.svc.GetShift(ctx, missed.ID)
		require.NoError(t, err)
		require.Equal(t, shift.StatusAbsent, got.Status)

		_, err = f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "2026-03-01", StartTime: "11:00", EndTime: "13:00"})
		assert.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())

		_, err := f.svc.AddShift(ctx, shift.AddShiftRequest{ShiftDate: "01/03/2026", StartTime: "25:00", EndTime: ""})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "shift_date")
		assert.Contains(t, fields, "start_time")
		assert.Contains(t, fields, "end_time")
	})
}

func TestDeleteShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shift.DefaultPolicy())

	scheduled := f.add(t, "2026-03-01", "18:00", "22:00")
	active := f.add(t, "2026-03-01", "08:00", "12:00")
	f.start(t, active.ID, "2026-03-01 08:00:00")

	deleted, err := f.svc.DeleteShift(ctx, active.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.svc.DeleteShift(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.DeleteShift(ctx, scheduled.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestStartShift(t *testing.T) {
	ctx := context.Background()

	t.Run("starts and stamps actual start", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "10:00", "14:00")

		started := f.start(t, s.ID, "2026-03-01 09:45:00")
		assert.Equal(t, shift.StatusActive, started.Status)
		require.NotNil(t, started.ActualStart)
		assert.True(t, at(t, "2026-03-01 09:45:00").Equal(*started.ActualStart))
		assert.False(t, started.IsLate)

		active, err := f.svc.GetActiveShift(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, s.ID, active.ID)
	})

	t.Run("too early reports remaining wait", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "10:00", "14:00")

		f.clock.Set(at(t, "2026-03-01 08:00:00"))
		_, err := f.svc.StartShift(ctx, s.ID)
		assert.ErrorIs(t, err, shift.ErrTooEarlyToStart)
		var tooEarly *shift.TooEarlyError
		require.ErrorAs(t, err, &tooEarly)
		assert.Equal(t, 90, tooEarly.WaitMinutes)

		got, err := f.svc.GetShift(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusScheduled, got.Status)
	})

	t.Run("only one active shift", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		first := f.add(t, "2026-03-01", "08:00", "12:00")
		second := f.add(t, "2026-03-01", "12:00", "16:00")
		f.start(t, first.ID, "2026-03-01 08:00:00")

		f.clock.Set(at(t, "2026-03-01 11:45:00"))
		_, err := f.svc.StartShift(ctx, second.ID)
		assert.ErrorIs(t, err, shift.ErrAnotherShiftActive)
	})

	t.Run("status must be scheduled", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		f.start(t, s.ID, "2026-03-01 08:00:00")

		_, err := f.svc.StartShift(ctx, s.ID)
		assert.ErrorIs(t, err, shift.ErrInvalidStatus)

		_, err = f.svc.StartShift(ctx, "missing")
		assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	})

	t.Run("late policy", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		started := f.start(t, s.ID, "2026-03-01 08:20:00")
		assert.True(t, started.IsLate)

		policy := shift.DefaultPolicy()
		policy.LatePolicy = shift.LatePolicyNever
		g := newFixture(t, policy)
		s = g.add(t, "2026-03-01", "08:00", "12:00")
		started = g.start(t, s.ID, "2026-03-01 08:20:00")
		assert.False(t, started.IsLate)
	})

	t.Run("concurrent starts leave one active shift", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		ids := []string{
			f.add(t, "2026-03-01", "08:30", "09:00").ID,
			f.add(t, "2026-03-01", "09:00", "09:10").ID,
			f.add(t, "2026-03-01", "09:10", "09:20").ID,
		}
		// Every shift is inside its start window.
		f.clock.Set(at(t, "2026-03-01 08:45:00"))

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, err := f.svc.StartShift(ctx, id); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(id)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		active, err := f.svc.ListShifts(ctx, shift.ListShiftsRequest{Status: "ACTIVE"})
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})
}

func TestToggleBreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shift.DefaultPolicy())
	s := f.add(t, "2026-03-01", "08:00", "16:00")

	_, err := f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{})
	assert.ErrorIs(t, err, shift.ErrShiftNotActive)

	f.start(t, s.ID, "2026-03-01 08:00:00")

	planned := 10
	f.clock.Set(at(t, "2026-03-01 10:00:00"))
	state, err := f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{PlannedMinutes: &planned})
	require.NoError(t, err)
	assert.Equal(t, shift.BreakActive, state)

	status, err := f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 10:00:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateBreak, status.State)
	require.NotNil(t, status.Remaining)
	assert.Equal(t, 600*time.Second, *status.Remaining)
	require.NotNil(t, status.Elapsed)
	assert.Equal(t, time.Duration(0), *status.Elapsed)

	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 10:15:00"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), *status.Remaining)
	assert.Equal(t, 15*time.Minute, *status.Elapsed)

	allowed, reason, err := f.svc.IsOrderAllowed(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.NotEmpty(t, reason)

	f.clock.Set(at(t, "2026-03-01 10:12:30"))
	state, err = f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{})
	require.NoError(t, err)
	assert.Equal(t, shift.BreakInactive, state)

	got, err := f.svc.GetShift(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.BreakActive)
	assert.Nil(t, got.BreakStart)
	assert.Nil(t, got.BreakPlannedDuration)
	require.NotNil(t, got.BreakEnd)
	assert.True(t, at(t, "2026-03-01 10:12:30").Equal(*got.BreakEnd))
	assert.Equal(t, 750, got.TotalBreakTime)

	// A second break accumulates.
	f.clock.Set(at(t, "2026-03-01 12:00:00"))
	_, err = f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{})
	require.NoError(t, err)

	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 12:05:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateBreak, status.State)
	assert.Nil(t, status.Remaining)

	f.clock.Set(at(t, "2026-03-01 12:05:00"))
	_, err = f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{})
	require.NoError(t, err)
	got, err = f.svc.GetShift(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1050, got.TotalBreakTime)

	allowed, _, err = f.svc.IsOrderAllowed(ctx)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func addOrder(t *testing.T, repo ledger.LedgerRepository, shiftID string, mode ledger.OrderMode, fee, tipCash, tipVisa string) {
	t.Helper()
	id := shiftID
	_, err := repo.CreateOrder(context.Background(), ledger.Order{
		ID:          uuid.NewString(),
		CreatedAt:   time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
		Mode:        mode,
		OrderType:   "RESTAURANT",
		DeliveryFee: decimal.RequireFromString(fee),
		TipCash:     decimal.RequireFromString(tipCash),
		TipVisa:     decimal.RequireFromString(tipVisa),
		ShiftID:     &id,
	})
	require.NoError(t, err)
}

func addExpense(t *testing.T, repo ledger.LedgerRepository, shiftID string, typ ledger.ExpenseType, amount string) {
	t.Helper()
	id := shiftID
	_, err := repo.CreateExpense(context.Background(), ledger.Expense{
		ID:          uuid.NewString(),
		CreatedAt:   time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
		Description: "fuel",
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		ShiftID:     &id,
	})
	require.NoError(t, err)
}

func TestEndShift(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing active", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		finished, err := f.svc.EndShift(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, finished)
	})

	t.Run("finishes active shift with summary", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		f.start(t, s.ID, "2026-03-01 08:00:00")

		addOrder(t, f.ledger, s.ID, ledger.ModeCash, "7.50", "2.00", "0")
		addOrder(t, f.ledger, s.ID, ledger.ModeVisa, "6.00", "0", "1.25")
		addOrder(t, f.ledger, s.ID, ledger.ModeTip, "0", "2.00", "0")
		addExpense(t, f.ledger, s.ID, ledger.ExpenseOut, "5.00")
		addExpense(t, f.ledger, s.ID, ledger.ExpenseIn, "100.00")

		stats, err := f.svc.GetShiftStats(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Orders)

		f.clock.Set(at(t, "2026-03-01 11:30:00"))
		finished, err := f.svc.EndShift(ctx, nil)
		require.NoError(t, err)
		require.NotNil(t, finished)
		assert.Equal(t, shift.StatusFinished, finished.Status)
		require.NotNil(t, finished.ActualEnd)
		assert.True(t, at(t, "2026-03-01 11:30:00").Equal(*finished.ActualEnd))
		require.NotNil(t, finished.Summary)
		assert.Equal(t, 2, finished.Summary.Orders)
		assert.Equal(t, "16.75", finished.Summary.Income.StringFixed(2))
		assert.Equal(t, "5.00", finished.Summary.Expenses.StringFixed(2))
		assert.Equal(t, "11.75", finished.Summary.NetProfit.StringFixed(2))

		stored, err := f.svc.GetShift(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Summary)
		assert.True(t, finished.Summary.NetProfit.Equal(stored.Summary.NetProfit))

		active, err := f.svc.GetActiveShift(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("open break is closed first", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		f.start(t, s.ID, "2026-03-01 08:00:00")

		f.clock.Set(at(t, "2026-03-01 10:00:00"))
		_, err := f.svc.ToggleBreak(ctx, s.ID, shift.ToggleBreakRequest{})
		require.NoError(t, err)

		f.clock.Set(at(t, "2026-03-01 10:20:00"))
		id := s.ID
		finished, err := f.svc.EndShift(ctx, &id)
		require.NoError(t, err)
		require.NotNil(t, finished)
		assert.False(t, finished.BreakActive)
		assert.Equal(t, 1200, finished.TotalBreakTime)
	})

	t.Run("explicit id must be active", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")

		id := s.ID
		_, err := f.svc.EndShift(ctx, &id)
		assert.ErrorIs(t, err, shift.ErrShiftNotActive)

		missing := "missing"
		_, err = f.svc.EndShift(ctx, &missing)
		assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	})
}

func TestCheckAutoUpdates(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-finishes an overdue active shift once", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		f.start(t, s.ID, "2026-03-01 08:00:00")

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 11:59:59")))

		finished := f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 12:00:01"))
		require.NotNil(t, finished)
		assert.Equal(t, s.ID, finished.ID)
		assert.Equal(t, shift.StatusFinished, finished.Status)
		require.NotNil(t, finished.ActualEnd)
		assert.True(t, at(t, "2026-03-01 12:00:01").Equal(*finished.ActualEnd))
		assert.NotNil(t, finished.Summary)

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 12:00:01")))
		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 18:00:00")))

		stored, err := f.svc.GetShift(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusFinished, stored.Status)
		assert.True(t, at(t, "2026-03-01 12:00:01").Equal(*stored.ActualEnd))
	})

	t.Run("storage failure yields no result", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "08:00", "12:00")
		f.start(t, s.ID, "2026-03-01 08:00:00")
		require.NoError(t, f.db.Close())

		var finished *shift.Shift
		assert.NotPanics(t, func() {
			finished = f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 13:00:00"))
		})
		assert.Nil(t, finished)

		_, err := f.svc.Sweep(ctx, at(t, "2026-03-01 13:00:00"))
		assert.Error(t, err)
	})

	t.Run("overnight shift ends on the next day", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		s := f.add(t, "2026-03-01", "22:00", "02:00")
		f.start(t, s.ID, "2026-03-01 22:00:00")

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-02 01:59:00")))
		finished := f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-02 02:00:00"))
		require.NotNil(t, finished)
		assert.Equal(t, s.ID, finished.ID)
	})

	t.Run("missed shift becomes absent and cannot start", func(t *testing.T) {
		f := newFixture(t, shift.DefaultPolicy())
		missed := f.add(t, "2026-03-01", "08:00", "12:00")
		later := f.add(t, "2026-03-01", "18:00", "22:00")

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 12:00:00")))

		got, err := f.svc.GetShift(ctx, missed.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusAbsent, got.Status)

		got, err = f.svc.GetShift(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusScheduled, got.Status)

		f.clock.Set(at(t, "2026-03-01 12:30:00"))
		_, err = f.svc.StartShift(ctx, missed.ID)
		assert.ErrorIs(t, err, shift.ErrInvalidStatus)

		// Sweeping again leaves the absent shift alone.
		f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-02 12:00:00"))
		got, err = f.svc.GetShift(ctx, missed.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusAbsent, got.Status)
	})

	t.Run("grace periods delay transitions", func(t *testing.T) {
		policy := shift.DefaultPolicy()
		policy.AutoFinishGrace = 10 * time.Minute
		policy.AbsentGrace = 30 * time.Minute
		f := newFixture(t, policy)

		active := f.add(t, "2026-03-01", "08:00", "12:00")
		missed := f.add(t, "2026-03-01", "06:00", "07:00")
		f.start(t, active.ID, "2026-03-01 08:00:00")

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 07:15:00")))
		got, err := f.svc.GetShift(ctx, missed.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusScheduled, got.Status)

		assert.Nil(t, f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 12:05:00")))
		got, err = f.svc.GetShift(ctx, missed.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusAbsent, got.Status)

		finished := f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-01 12:10:00"))
		require.NotNil(t, finished)
		assert.Equal(t, active.ID, finished.ID)
	})
}

func TestGetDashboardStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shift.DefaultPolicy())

	status, err := f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 07:00:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateNoShift, status.State)

	// Tomorrow's shift is not part of the live status line.
	f.add(t, "2026-03-02", "08:00", "12:00")
	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 07:00:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateNoShift, status.State)

	today := f.add(t, "2026-03-01", "09:00", "13:00")
	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 07:00:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateNextUpcoming, status.State)
	require.NotNil(t, status.Shift)
	assert.Equal(t, today.ID, status.Shift.ID)
	require.NotNil(t, status.Wait)
	assert.Equal(t, 2*time.Hour, *status.Wait)

	f.start(t, today.ID, "2026-03-01 09:00:00")
	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 12:00:00"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateShiftActive, status.State)
	require.NotNil(t, status.Remaining)
	assert.Equal(t, time.Hour, *status.Remaining)

	status, err = f.svc.GetDashboardStatus(ctx, at(t, "2026-03-01 13:00:30"))
	require.NoError(t, err)
	assert.Equal(t, shift.StateShiftActive, status.State)
	assert.Equal(t, -30*time.Second, *status.Remaining)

	// Computing the status never changes state.
	got, err := f.svc.GetShift(ctx, today.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusActive, got.Status)
}

func TestIsOrderAllowed_NoActiveShift(t *testing.T) {
	f := newFixture(t, shift.DefaultPolicy())
	allowed, reason, err := f.svc.IsOrderAllowed(context.Background())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, "no active shift", reason)
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shift.DefaultPolicy())

	a := f.add(t, "2026-03-01", "08:00", "12:00")
	b := f.add(t, "2026-03-01", "14:00", "18:00")
	c := f.add(t, "2026-03-04", "08:00", "12:00")

	byDate, err := f.svc.GetShiftsByDate(ctx, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, a.ID, byDate[0].ID)
	assert.Equal(t, b.ID, byDate[1].ID)

	_, err = f.svc.GetShiftsByDate(ctx, "March 1")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	next, err := f.svc.GetNextShift(ctx, at(t, "2026-03-01 13:00:00"))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, b.ID, next.ID)

	next, err = f.svc.GetNextShift(ctx, at(t, "2026-03-02 00:00:00"))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, c.ID, next.ID)

	f.svc.CheckAutoUpdates(ctx, at(t, "2026-03-02 00:00:00"))
	history, err := f.svc.ListShifts(ctx, shift.ListShiftsRequest{Status: "FINISHED,ABSENT"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, b.ID, history[0].ID)

	_, err = f.svc.ListShifts(ctx, shift.ListShiftsRequest{Status: "PAUSED"})
	assert.ErrorAs(t, err, &verrs)
}

func TestSummarize(t *testing.T) {
	orders := []ledger.Order{
		{Mode: ledger.ModeCash, DeliveryFee: decimal.RequireFromString("5"), TipCash: decimal.RequireFromString("1")},
		{Mode: ledger.ModeTip, TipCash: decimal.RequireFromString("1")},
		{Mode: ledger.ModeVisa, DeliveryFee: decimal.RequireFromString("4.5"), TipVisa: decimal.RequireFromString("0.5")},
	}
	expenses := []ledger.Expense{
		{Type: ledger.ExpenseOut, Amount: decimal.RequireFromString("3")},
		{Type: ledger.ExpenseIn, Amount: decimal.RequireFromString("50")},
	}

	sum := shiftService.Summarize(orders, expenses)
	assert.Equal(t, 2, sum.Orders)
	assert.Equal(t, "11", sum.Income.String())
	assert.Equal(t, "3", sum.Expenses.String())
	assert.Equal(t, "8", sum.NetProfit.String())

	empty := shiftService.Summarize(nil, nil)
	assert.Equal(t, 0, empty.Orders)
	assert.True(t, empty.NetProfit.IsZero())
}
