package ledger

import "context"

// LedgerService records orders and expenses against the shift in progress.
type LedgerService interface {
	// AddOrder is rejected with a NotAllowedError unless a shift is active and not on break
	AddOrder(ctx context.Context, req CreateOrderRequest) (Order, error)

	// AddExpense stamps the active shift id when there is one
	AddExpense(ctx context.Context, req CreateExpenseRequest) (Expense, error)

	QueryByShift(ctx context.Context, shiftID string) (ShiftLedgerResponse, error)
	ListRecentOrders(ctx context.Context, limit int) ([]Order, error)
}
