package ledger

import "context"

// LedgerRepository stores orders and expenses.
type LedgerRepository interface {
	CreateOrder(ctx context.Context, o Order) (Order, error)
	CreateExpense(ctx context.Context, e Expense) (Expense, error)

	// GetOrdersByShift returns every order tagged with shiftID, oldest first
	GetOrdersByShift(ctx context.Context, shiftID string) ([]Order, error)

	// GetExpensesByShift returns every expense tagged with shiftID, oldest first
	GetExpensesByShift(ctx context.Context, shiftID string) ([]Expense, error)

	// ListRecentOrders returns the latest orders, newest first
	ListRecentOrders(ctx context.Context, limit int) ([]Order, error)
}
