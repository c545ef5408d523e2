package shift

import (
	"context"
	"fmt"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
)

// Summarize aggregates ledger entries into shift totals. TIP orders are
// sub-records of another order and are skipped so tips are not counted twice.
// Only OUT expenses reduce profit.
func Summarize(orders []ledger.Order, expenses []ledger.Expense) shift.Summary {
	var sum shift.Summary
	for _, o := range orders {
		if o.Mode == ledger.ModeTip {
			continue
		}
		sum.Orders++
		sum.Income = sum.Income.Add(o.DeliveryFee).Add(o.TipCash).Add(o.TipVisa)
	}
	for _, e := range expenses {
		if e.Type != ledger.ExpenseOut {
			continue
		}
		sum.Expenses = sum.Expenses.Add(e.Amount)
	}
	sum.NetProfit = sum.Income.Sub(sum.Expenses)
	return sum
}

func (s *ShiftServiceImpl) summarize(ctx context.Context, shiftID string) (shift.Summary, error) {
	orders, err := s.ledger.GetOrdersByShift(ctx, shiftID)
	if err != nil {
		return shift.Summary{}, fmt.Errorf("failed to load shift orders: %w", err)
	}
	expenses, err := s.ledger.GetExpensesByShift(ctx, shiftID)
	if err != nil {
		return shift.Summary{}, fmt.Errorf("failed to load shift expenses: %w", err)
	}
	return Summarize(orders, expenses), nil
}

// GetShiftStats implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShiftStats(ctx context.Context, id string) (shift.Summary, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.Summary{}, err
	}
	if sh.Status == shift.StatusFinished && sh.Summary != nil {
		return *sh.Summary, nil
	}
	return s.summarize(ctx, id)
}
