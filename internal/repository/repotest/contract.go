// Package repotest holds the behaviour every store driver must share.
// Driver packages call these from their own tests with a fresh database.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores is one freshly migrated, empty set of repositories.
type Stores struct {
	Shifts     shift.ShiftRepository
	Ledger     ledger.LedgerRepository
	Transactor shift.Transactor
}

// Factory returns empty stores whose timestamps are read in time.UTC.
type Factory func(t *testing.T) Stores

var created = time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

func newShift(t *testing.T, date, start, end string) shift.Shift {
	t.Helper()
	d, err := interval.ParseDate(date)
	require.NoError(t, err)
	s, err := interval.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := interval.ParseTimeOfDay(end)
	require.NoError(t, err)

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return shift.Shift{
		ID:             id.String(),
		ShiftDate:      d,
		ScheduledStart: s,
		ScheduledEnd:   e,
		Status:         shift.StatusScheduled,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func mustCreate(t *testing.T, ctx context.Context, repo shift.ShiftRepository, s shift.Shift) shift.Shift {
	t.Helper()
	out, err := repo.Create(ctx, s)
	require.NoError(t, err)
	return out
}

func activate(s shift.Shift, at time.Time) shift.Shift {
	s.Status = shift.StatusActive
	s.ActualStart = &at
	s.UpdatedAt = at
	return s
}

// RunShiftRepository exercises shift.ShiftRepository and shift.Transactor.
func RunShiftRepository(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and get by id", func(t *testing.T) {
		st := newStores(t)
		s := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "22:00", "02:00"))

		got, err := st.Shifts.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, "2026-03-01", got.ShiftDate.String())
		assert.Equal(t, "22:00", got.ScheduledStart.String())
		assert.Equal(t, "02:00", got.ScheduledEnd.String())
		assert.Equal(t, shift.StatusScheduled, got.Status)
		assert.Nil(t, got.ActualStart)
		assert.Nil(t, got.Summary)
		assert.True(t, created.Equal(got.CreatedAt))
	})

	t.Run("get by id unknown", func(t *testing.T) {
		st := newStores(t)
		_, err := st.Shifts.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	})

	t.Run("get by dates", func(t *testing.T) {
		st := newStores(t)
		late := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "18:00", "22:00"))
		early := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-03", "08:00", "12:00"))
		prev := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-02-28", "20:00", "01:00"))

		d, _ := interval.ParseDate("2026-03-01")
		got, err := st.Shifts.GetByDates(ctx, d.AddDays(-1), d)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, prev.ID, got[0].ID)
		assert.Equal(t, early.ID, got[1].ID)
		assert.Equal(t, late.ID, got[2].ID)

		none, err := st.Shifts.GetByDates(ctx)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("active shift lifecycle", func(t *testing.T) {
		st := newStores(t)
		a := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		b := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "13:00", "17:00"))

		active, err := st.Shifts.GetActive(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)

		startedAt := time.Date(2026, time.March, 1, 8, 5, 0, 0, time.UTC)
		require.NoError(t, st.Shifts.Update(ctx, activate(a, startedAt), shift.StatusScheduled))

		active, err = st.Shifts.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, a.ID, active.ID)
		require.NotNil(t, active.ActualStart)
		assert.True(t, startedAt.Equal(*active.ActualStart))

		// The store itself refuses a second ACTIVE shift.
		err = st.Shifts.Update(ctx, activate(b, startedAt), shift.StatusScheduled)
		assert.ErrorIs(t, err, shift.ErrAnotherShiftActive)

		byStatus, err := st.Shifts.GetByStatus(ctx, shift.StatusActive)
		require.NoError(t, err)
		assert.Len(t, byStatus, 1)
	})

	t.Run("update is conditional on status", func(t *testing.T) {
		st := newStores(t)
		s := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))

		s.Status = shift.StatusAbsent
		require.NoError(t, st.Shifts.Update(ctx, s, shift.StatusScheduled))

		err := st.Shifts.Update(ctx, s, shift.StatusScheduled)
		assert.ErrorIs(t, err, shift.ErrShiftStateChanged)
	})

	t.Run("finished shift keeps summary and break fields", func(t *testing.T) {
		st := newStores(t)
		s := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))

		start := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
		breakStart := start.Add(time.Hour)
		breakEnd := breakStart.Add(10 * time.Minute)
		end := start.Add(4 * time.Hour)
		planned := 15

		s.Status = shift.StatusFinished
		s.ActualStart = &start
		s.ActualEnd = &end
		s.IsLate = true
		s.BreakStart = &breakStart
		s.BreakEnd = &breakEnd
		s.BreakPlannedDuration = &planned
		s.TotalBreakTime = 600
		s.Summary = &shift.Summary{
			Orders:    3,
			Income:    decimal.RequireFromString("42.50"),
			Expenses:  decimal.RequireFromString("10.25"),
			NetProfit: decimal.RequireFromString("32.25"),
		}
		s.UpdatedAt = end
		require.NoError(t, st.Shifts.Update(ctx, s, shift.StatusScheduled))

		got, err := st.Shifts.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.StatusFinished, got.Status)
		assert.True(t, got.IsLate)
		assert.False(t, got.BreakActive)
		require.NotNil(t, got.BreakEnd)
		assert.True(t, breakEnd.Equal(*got.BreakEnd))
		require.NotNil(t, got.BreakPlannedDuration)
		assert.Equal(t, 15, *got.BreakPlannedDuration)
		assert.Equal(t, 600, got.TotalBreakTime)
		require.NotNil(t, got.Summary)
		assert.Equal(t, 3, got.Summary.Orders)
		assert.True(t, decimal.RequireFromString("42.50").Equal(got.Summary.Income))
		assert.True(t, decimal.RequireFromString("10.25").Equal(got.Summary.Expenses))
		assert.True(t, decimal.RequireFromString("32.25").Equal(got.Summary.NetProfit))
	})

	t.Run("next scheduled", func(t *testing.T) {
		st := newStores(t)
		mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		today := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "18:00", "22:00"))
		tomorrow := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-02", "08:00", "12:00"))

		next, err := st.Shifts.GetNextScheduled(ctx, time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, today.ID, next.ID)

		next, err = st.Shifts.GetNextScheduled(ctx, time.Date(2026, time.March, 1, 17, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, today.ID, next.ID)

		// A shift that started this minute is no longer next.
		for _, sec := range []int{0, 59} {
			next, err = st.Shifts.GetNextScheduled(ctx, time.Date(2026, time.March, 1, 18, 0, sec, 0, time.UTC))
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, tomorrow.ID, next.ID)
		}

		next, err = st.Shifts.GetNextScheduled(ctx, time.Date(2026, time.March, 1, 19, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, tomorrow.ID, next.ID)

		next, err = st.Shifts.GetNextScheduled(ctx, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("list with filter", func(t *testing.T) {
		st := newStores(t)
		a := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		b := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-02", "08:00", "12:00"))
		c := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-03", "08:00", "12:00"))

		a.Status = shift.StatusAbsent
		require.NoError(t, st.Shifts.Update(ctx, a, shift.StatusScheduled))

		all, err := st.Shifts.List(ctx, shift.ShiftFilter{Newest: true})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, c.ID, all[0].ID)

		from, _ := interval.ParseDate("2026-03-02")
		scheduled, err := st.Shifts.List(ctx, shift.ShiftFilter{
			Statuses: []shift.Status{shift.StatusScheduled},
			From:     &from,
		})
		require.NoError(t, err)
		require.Len(t, scheduled, 2)
		assert.Equal(t, b.ID, scheduled[0].ID)

		limited, err := st.Shifts.List(ctx, shift.ShiftFilter{Limit: 1, Newest: true})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("delete only scheduled", func(t *testing.T) {
		st := newStores(t)
		s := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		active := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "13:00", "17:00"))
		require.NoError(t, st.Shifts.Update(ctx, activate(active, created), shift.StatusScheduled))

		deleted, err := st.Shifts.DeleteScheduled(ctx, active.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = st.Shifts.DeleteScheduled(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = st.Shifts.GetByID(ctx, s.ID)
		assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		st := newStores(t)
		s := newShift(t, "2026-03-01", "08:00", "12:00")
		boom := errors.New("boom")

		err := st.Transactor.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := st.Shifts.Create(ctx, s); err != nil {
				return err
			}
			// Reads inside the transaction see its own writes.
			if _, err := st.Shifts.GetByID(ctx, s.ID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = st.Shifts.GetByID(ctx, s.ID)
		assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	})

	t.Run("nested transactions share the outer one", func(t *testing.T) {
		st := newStores(t)
		s := newShift(t, "2026-03-01", "08:00", "12:00")

		err := st.Transactor.WithinTx(ctx, func(ctx context.Context) error {
			return st.Transactor.WithinTx(ctx, func(ctx context.Context) error {
				_, err := st.Shifts.Create(ctx, s)
				return err
			})
		})
		require.NoError(t, err)

		_, err = st.Shifts.GetByID(ctx, s.ID)
		assert.NoError(t, err)
	})
}

// RunLedgerRepository exercises ledger.LedgerRepository.
func RunLedgerRepository(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("orders and expenses by shift", func(t *testing.T) {
		st := newStores(t)
		s := mustCreate(t, ctx, st.Shifts, newShift(t, "2026-03-01", "08:00", "12:00"))
		shiftID := s.ID

		_, err := st.Ledger.CreateOrder(ctx, ledger.Order{
			ID:          uuid.NewString(),
			CreatedAt:   created.Add(time.Minute),
			Mode:        ledger.ModeCash,
			OrderType:   "RESTAURANT",
			Paid:        decimal.RequireFromString("20"),
			Expected:    decimal.RequireFromString("18.5"),
			Actual:      decimal.RequireFromString("20"),
			DeliveryFee: decimal.RequireFromString("7.5"),
			TipCash:     decimal.RequireFromString("1.5"),
			TipVisa:     decimal.Zero,
			ShiftID:     &shiftID,
		})
		require.NoError(t, err)

		_, err = st.Ledger.CreateOrder(ctx, ledger.Order{
			ID:        uuid.NewString(),
			CreatedAt: created.Add(2 * time.Minute),
			Mode:      ledger.ModeVisa,
			OrderType: "MART",
		})
		require.NoError(t, err)

		_, err = st.Ledger.CreateExpense(ctx, ledger.Expense{
			ID:          uuid.NewString(),
			CreatedAt:   created.Add(3 * time.Minute),
			Description: "fuel",
			Amount:      decimal.RequireFromString("12.75"),
			Type:        ledger.ExpenseOut,
			ShiftID:     &shiftID,
		})
		require.NoError(t, err)

		orders, err := st.Ledger.GetOrdersByShift(ctx, shiftID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, ledger.ModeCash, orders[0].Mode)
		assert.True(t, decimal.RequireFromString("7.5").Equal(orders[0].DeliveryFee))
		assert.True(t, decimal.RequireFromString("1.5").Equal(orders[0].TipCash))
		require.NotNil(t, orders[0].ShiftID)
		assert.Equal(t, shiftID, *orders[0].ShiftID)

		expenses, err := st.Ledger.GetExpensesByShift(ctx, shiftID)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "fuel", expenses[0].Description)
		assert.True(t, decimal.RequireFromString("12.75").Equal(expenses[0].Amount))

		recent, err := st.Ledger.ListRecentOrders(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, ledger.ModeVisa, recent[0].Mode)
		assert.Nil(t, recent[0].ShiftID)
	})
}
