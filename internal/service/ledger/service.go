package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/google/uuid"
)

type LedgerServiceImpl struct {
	ledger.LedgerRepository
	shifts shift.ShiftService
	tx     shift.Transactor
	loc    *time.Location
	clock  func() time.Time
}

// NewLedgerService shares tx with the shift service so that recording an
// entry is serialized with shift transitions.
func NewLedgerService(ledgerRepository ledger.LedgerRepository, shiftService shift.ShiftService, tx shift.Transactor, loc *time.Location, clock func() time.Time) ledger.LedgerService {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	return &LedgerServiceImpl{
		LedgerRepository: ledgerRepository,
		shifts:           shiftService,
		tx:               tx,
		loc:              loc,
		clock:            clock,
	}
}

func (s *LedgerServiceImpl) now() time.Time {
	return s.clock().In(s.loc).Truncate(time.Second)
}

// AddOrder implements ledger.LedgerService.
func (s *LedgerServiceImpl) AddOrder(ctx context.Context, req ledger.CreateOrderRequest) (ledger.Order, error) {
	if err := req.Validate(); err != nil {
		return ledger.Order{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return ledger.Order{}, fmt.Errorf("failed to generate order id: %w", err)
	}

	var created ledger.Order
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		allowed, reason, err := s.shifts.IsOrderAllowed(ctx)
		if err != nil {
			return fmt.Errorf("failed to check order gate: %w", err)
		}
		if !allowed {
			return &ledger.NotAllowedError{Reason: reason}
		}

		active, err := s.shifts.GetActiveShift(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active shift: %w", err)
		}
		if active == nil {
			return &ledger.NotAllowedError{Reason: "no active shift"}
		}
		shiftID := active.ID

		created, err = s.LedgerRepository.CreateOrder(ctx, ledger.Order{
			ID:          id.String(),
			CreatedAt:   s.now(),
			Mode:        req.Mode,
			OrderType:   req.OrderType,
			Paid:        req.Paid,
			Expected:    req.Expected,
			Actual:      req.Actual,
			DeliveryFee: req.DeliveryFee,
			TipCash:     req.TipCash,
			TipVisa:     req.TipVisa,
			ShiftID:     &shiftID,
		})
		return err
	})
	if err != nil {
		return ledger.Order{}, err
	}

	slog.Info("order recorded", "order_id", created.ID, "mode", created.Mode, "shift_id", created.ShiftID)
	return created, nil
}

// AddExpense implements ledger.LedgerService.
func (s *LedgerServiceImpl) AddExpense(ctx context.Context, req ledger.CreateExpenseRequest) (ledger.Expense, error) {
	if err := req.Validate(); err != nil {
		return ledger.Expense{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("failed to generate expense id: %w", err)
	}

	var created ledger.Expense
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.shifts.GetActiveShift(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active shift: %w", err)
		}

		e := ledger.Expense{
			ID:          id.String(),
			CreatedAt:   s.now(),
			Description: req.Description,
			Amount:      req.Amount,
			Type:        req.Type,
		}
		if active != nil {
			shiftID := active.ID
			e.ShiftID = &shiftID
		}

		created, err = s.LedgerRepository.CreateExpense(ctx, e)
		return err
	})
	if err != nil {
		return ledger.Expense{}, err
	}
	return created, nil
}

// QueryByShift implements ledger.LedgerService.
func (s *LedgerServiceImpl) QueryByShift(ctx context.Context, shiftID string) (ledger.ShiftLedgerResponse, error) {
	if _, err := s.shifts.GetShift(ctx, shiftID); err != nil {
		return ledger.ShiftLedgerResponse{}, err
	}

	orders, err := s.LedgerRepository.GetOrdersByShift(ctx, shiftID)
	if err != nil {
		return ledger.ShiftLedgerResponse{}, err
	}
	expenses, err := s.LedgerRepository.GetExpensesByShift(ctx, shiftID)
	if err != nil {
		return ledger.ShiftLedgerResponse{}, err
	}

	resp := ledger.ShiftLedgerResponse{
		ShiftID:  shiftID,
		Orders:   ledger.NewOrderListResponse(orders),
		Expenses: make([]ledger.ExpenseResponse, 0, len(expenses)),
	}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, ledger.NewExpenseResponse(e))
	}
	return resp, nil
}

// ListRecentOrders implements ledger.LedgerService.
func (s *LedgerServiceImpl) ListRecentOrders(ctx context.Context, limit int) ([]ledger.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.LedgerRepository.ListRecentOrders(ctx, limit)
}
