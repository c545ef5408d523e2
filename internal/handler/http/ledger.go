package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/handler/http/response"
)

type LedgerHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	ListOrders(w http.ResponseWriter, r *http.Request)
	CreateExpense(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

// CreateOrder implements LedgerHandler.
func (h *ledgerHandlerImpl) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	order, err := h.ledgerService.AddOrder(r.Context(), req)
	if err != nil {
		slog.Warn("AddOrder failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Order recorded", ledger.NewOrderResponse(order))
}

// ListOrders implements LedgerHandler.
func (h *ledgerHandlerImpl) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 50)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	orders, err := h.ledgerService.ListRecentOrders(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, ledger.NewOrderListResponse(orders), &response.Meta{
		Limit:      limit,
		TotalItems: int64(len(orders)),
	})
}

// CreateExpense implements LedgerHandler.
func (h *ledgerHandlerImpl) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	expense, err := h.ledgerService.AddExpense(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Expense recorded", ledger.NewExpenseResponse(expense))
}
