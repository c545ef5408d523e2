package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, created_at, mode, order_type, paid, expected, actual,
	delivery_fee, tip_cash, tip_visa, shift_id`

const expenseColumns = `id, created_at, description, amount, type, shift_id`

type ledgerRepository struct {
	db  *database.SQLiteDB
	loc *time.Location
}

func NewLedgerRepository(db *database.SQLiteDB, loc *time.Location) ledger.LedgerRepository {
	return &ledgerRepository{db: db, loc: loc}
}

// Amounts are stored as decimal text; decimal.Decimal scans it directly.
func (r *ledgerRepository) scanOrder(row rowScanner) (ledger.Order, error) {
	var (
		o               ledger.Order
		createdAt, mode string
	)
	if err := row.Scan(&o.ID, &createdAt, &mode, &o.OrderType, &o.Paid, &o.Expected, &o.Actual,
		&o.DeliveryFee, &o.TipCash, &o.TipVisa, &o.ShiftID); err != nil {
		return ledger.Order{}, err
	}

	t, err := interval.ParseTimestamp(createdAt, r.loc)
	if err != nil {
		return ledger.Order{}, err
	}
	o.CreatedAt = t
	o.Mode = ledger.OrderMode(mode)
	return o, nil
}

func (r *ledgerRepository) scanExpense(row rowScanner) (ledger.Expense, error) {
	var (
		e                  ledger.Expense
		createdAt, expType string
	)
	if err := row.Scan(&e.ID, &createdAt, &e.Description, &e.Amount, &expType, &e.ShiftID); err != nil {
		return ledger.Expense{}, err
	}

	t, err := interval.ParseTimestamp(createdAt, r.loc)
	if err != nil {
		return ledger.Expense{}, err
	}
	e.CreatedAt = t
	e.Type = ledger.ExpenseType(expType)
	return e, nil
}

func (r *ledgerRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]ledger.Order, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []ledger.Order{}
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func amount(d decimal.Decimal) string {
	return d.String()
}

// CreateOrder implements ledger.LedgerRepository.
func (r *ledgerRepository) CreateOrder(ctx context.Context, o ledger.Order) (ledger.Order, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO orders (
			id, created_at, mode, order_type, paid, expected, actual,
			delivery_fee, tip_cash, tip_visa, shift_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		o.ID,
		interval.FormatTimestamp(o.CreatedAt.In(r.loc)),
		string(o.Mode),
		o.OrderType,
		amount(o.Paid),
		amount(o.Expected),
		amount(o.Actual),
		amount(o.DeliveryFee),
		amount(o.TipCash),
		amount(o.TipVisa),
		o.ShiftID,
	)
	if err != nil {
		return ledger.Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	return o, nil
}

// CreateExpense implements ledger.LedgerRepository.
func (r *ledgerRepository) CreateExpense(ctx context.Context, e ledger.Expense) (ledger.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (id, created_at, description, amount, type, shift_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		e.ID,
		interval.FormatTimestamp(e.CreatedAt.In(r.loc)),
		e.Description,
		amount(e.Amount),
		string(e.Type),
		e.ShiftID,
	)
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

// GetOrdersByShift implements ledger.LedgerRepository.
func (r *ledgerRepository) GetOrdersByShift(ctx context.Context, shiftID string) ([]ledger.Order, error) {
	orders, err := r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE shift_id = ? ORDER BY created_at ASC`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by shift: %w", err)
	}
	return orders, nil
}

// GetExpensesByShift implements ledger.LedgerRepository.
func (r *ledgerRepository) GetExpensesByShift(ctx context.Context, shiftID string) ([]ledger.Expense, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE shift_id = ? ORDER BY created_at ASC`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses by shift: %w", err)
	}
	defer rows.Close()

	expenses := []ledger.Expense{}
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListRecentOrders implements ledger.LedgerRepository.
func (r *ledgerRepository) ListRecentOrders(ctx context.Context, limit int) ([]ledger.Order, error) {
	builder := sq.Select(orderColumns).
		From("orders").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent orders query: %w", err)
	}

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}
