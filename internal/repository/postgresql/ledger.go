package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, created_at, mode, order_type, paid::text, expected::text, actual::text,
	delivery_fee::text, tip_cash::text, tip_visa::text, shift_id`

const expenseColumns = `id, created_at, description, amount::text, type, shift_id`

type ledgerRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewLedgerRepository(db *database.DB, loc *time.Location) ledger.LedgerRepository {
	return &ledgerRepository{db: db, loc: loc}
}

type amountField struct {
	src string
	dst *decimal.Decimal
}

func parseAmounts(fields ...amountField) error {
	for _, f := range fields {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", f.src, err)
		}
		*f.dst = d
	}
	return nil
}

func (r *ledgerRepository) scanOrder(row pgx.Row) (ledger.Order, error) {
	var (
		o                                             ledger.Order
		createdAt, mode                               string
		paid, expected, actual, fee, tipCash, tipVisa string
	)
	if err := row.Scan(&o.ID, &createdAt, &mode, &o.OrderType, &paid, &expected, &actual,
		&fee, &tipCash, &tipVisa, &o.ShiftID); err != nil {
		return ledger.Order{}, err
	}

	t, err := interval.ParseTimestamp(createdAt, r.loc)
	if err != nil {
		return ledger.Order{}, err
	}
	o.CreatedAt = t
	o.Mode = ledger.OrderMode(mode)

	err = parseAmounts(
		amountField{paid, &o.Paid},
		amountField{expected, &o.Expected},
		amountField{actual, &o.Actual},
		amountField{fee, &o.DeliveryFee},
		amountField{tipCash, &o.TipCash},
		amountField{tipVisa, &o.TipVisa},
	)
	return o, err
}

func (r *ledgerRepository) scanExpense(row pgx.Row) (ledger.Expense, error) {
	var (
		e                          ledger.Expense
		createdAt, amount, expType string
	)
	if err := row.Scan(&e.ID, &createdAt, &e.Description, &amount, &expType, &e.ShiftID); err != nil {
		return ledger.Expense{}, err
	}

	t, err := interval.ParseTimestamp(createdAt, r.loc)
	if err != nil {
		return ledger.Expense{}, err
	}
	e.CreatedAt = t
	e.Type = ledger.ExpenseType(expType)

	err = parseAmounts(amountField{amount, &e.Amount})
	return e, err
}

func (r *ledgerRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]ledger.Order, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
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

// CreateOrder implements ledger.LedgerRepository.
func (r *ledgerRepository) CreateOrder(ctx context.Context, o ledger.Order) (ledger.Order, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO orders (
			id, created_at, mode, order_type, paid, expected, actual,
			delivery_fee, tip_cash, tip_visa, shift_id
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11)
	`

	_, err := q.Exec(ctx, query,
		o.ID,
		interval.FormatTimestamp(o.CreatedAt.In(r.loc)),
		string(o.Mode),
		o.OrderType,
		o.Paid.String(),
		o.Expected.String(),
		o.Actual.String(),
		o.DeliveryFee.String(),
		o.TipCash.String(),
		o.TipVisa.String(),
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
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		e.ID,
		interval.FormatTimestamp(e.CreatedAt.In(r.loc)),
		e.Description,
		e.Amount.String(),
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
		`SELECT `+orderColumns+` FROM orders WHERE shift_id = $1 ORDER BY created_at ASC`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by shift: %w", err)
	}
	return orders, nil
}

// GetExpensesByShift implements ledger.LedgerRepository.
func (r *ledgerRepository) GetExpensesByShift(ctx context.Context, shiftID string) ([]ledger.Expense, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE shift_id = $1 ORDER BY created_at ASC`, shiftID)
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
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(orderColumns).
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
