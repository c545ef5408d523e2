package ledger

import (
	"strings"

	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// LEDGER REQUESTS
// ========================================

type CreateOrderRequest struct {
	Mode        OrderMode       `json:"mode" validate:"required,oneof=CASH VISA TIP"`
	OrderType   string          `json:"order_type" validate:"required,max=50"`
	Paid        decimal.Decimal `json:"paid"`
	Expected    decimal.Decimal `json:"expected"`
	Actual      decimal.Decimal `json:"actual"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	TipCash     decimal.Decimal `json:"tip_cash"`
	TipVisa     decimal.Decimal `json:"tip_visa"`
}

func (r *CreateOrderRequest) Validate() error {
	r.Mode = OrderMode(strings.ToUpper(strings.TrimSpace(string(r.Mode))))
	r.OrderType = strings.TrimSpace(r.OrderType)

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"paid", r.Paid},
		{"expected", r.Expected},
		{"actual", r.Actual},
		{"delivery_fee", r.DeliveryFee},
		{"tip_cash", r.TipCash},
		{"tip_visa", r.TipVisa},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   a.field,
				Message: a.field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Type        ExpenseType     `json:"type" validate:"omitempty,oneof=IN OUT"`
}

func (r *CreateExpenseRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	r.Type = ExpenseType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	if r.Type == "" {
		r.Type = ExpenseOut
	}

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// LEDGER RESPONSES
// ========================================

type OrderResponse struct {
	ID          string    `json:"id"`
	CreatedAt   string    `json:"created_at"`
	Mode        OrderMode `json:"mode"`
	OrderType   string    `json:"order_type"`
	Paid        string    `json:"paid"`
	Expected    string    `json:"expected"`
	Actual      string    `json:"actual"`
	DeliveryFee string    `json:"delivery_fee"`
	TipCash     string    `json:"tip_cash"`
	TipVisa     string    `json:"tip_visa"`
	ShiftID     *string   `json:"shift_id"`
}

func NewOrderResponse(o Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		CreatedAt:   interval.FormatTimestamp(o.CreatedAt),
		Mode:        o.Mode,
		OrderType:   o.OrderType,
		Paid:        o.Paid.StringFixed(2),
		Expected:    o.Expected.StringFixed(2),
		Actual:      o.Actual.StringFixed(2),
		DeliveryFee: o.DeliveryFee.StringFixed(2),
		TipCash:     o.TipCash.StringFixed(2),
		TipVisa:     o.TipVisa.StringFixed(2),
		ShiftID:     o.ShiftID,
	}
}

func NewOrderListResponse(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

type ExpenseResponse struct {
	ID          string      `json:"id"`
	CreatedAt   string      `json:"created_at"`
	Description string      `json:"description"`
	Amount      string      `json:"amount"`
	Type        ExpenseType `json:"type"`
	ShiftID     *string     `json:"shift_id"`
}

func NewExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CreatedAt:   interval.FormatTimestamp(e.CreatedAt),
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Type:        e.Type,
		ShiftID:     e.ShiftID,
	}
}

type ShiftLedgerResponse struct {
	ShiftID  string            `json:"shift_id"`
	Orders   []OrderResponse   `json:"orders"`
	Expenses []ExpenseResponse `json:"expenses"`
}
