package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderMode string

const (
	ModeCash OrderMode = "CASH"
	ModeVisa OrderMode = "VISA"
	// ModeTip marks a tip-only sub-record. Its amounts are already counted
	// on the order it belongs to.
	ModeTip OrderMode = "TIP"
)

func (m OrderMode) Valid() bool {
	return m == ModeCash || m == ModeVisa || m == ModeTip
}

type ExpenseType string

const (
	ExpenseIn  ExpenseType = "IN"
	ExpenseOut ExpenseType = "OUT"
)

func (t ExpenseType) Valid() bool {
	return t == ExpenseIn || t == ExpenseOut
}

type Order struct {
	ID          string
	CreatedAt   time.Time
	Mode        OrderMode
	OrderType   string
	Paid        decimal.Decimal
	Expected    decimal.Decimal
	Actual      decimal.Decimal
	DeliveryFee decimal.Decimal
	TipCash     decimal.Decimal
	TipVisa     decimal.Decimal
	ShiftID     *string
}

type Expense struct {
	ID          string
	CreatedAt   time.Time
	Description string
	Amount      decimal.Decimal
	Type        ExpenseType
	ShiftID     *string
}
