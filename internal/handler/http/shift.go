package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/handler/http/response"
	"github.com/driverwallet/shift-backend-go/internal/pkg/cron"
	"github.com/driverwallet/shift-backend-go/internal/pkg/sse"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListByDate(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	GetNext(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Ledger(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	ToggleBreak(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	OrdersAllowed(w http.ResponseWriter, r *http.Request)
	Sweep(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService  shift.ShiftService
	ledgerService ledger.LedgerService
	hub           *sse.Hub
	clock         func() time.Time
}

func NewShiftHandler(shiftService shift.ShiftService, ledgerService ledger.LedgerService, hub *sse.Hub, clock func() time.Time) ShiftHandler {
	if clock == nil {
		clock = time.Now
	}
	return &shiftHandlerImpl{
		shiftService:  shiftService,
		ledgerService: ledgerService,
		hub:           hub,
		clock:         clock,
	}
}

// decodeOptional accepts an empty body as the zero request.
func decodeOptional(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// shiftID reads the {id} route parameter. Shift ids are UUIDv7.
func shiftID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		return "", validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}
	return id, nil
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.AddShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.shiftService.AddShift(r.Context(), req)
	if err != nil {
		slog.Warn("AddShift failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift scheduled", shift.NewShiftResponse(created))
}

// ListByDate implements ShiftHandler. Without a date it lists today.
func (h *shiftHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.clock().Format("2006-01-02")
	}

	shifts, err := h.shiftService.GetShiftsByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.NewShiftListResponse(shifts))
}

// History implements ShiftHandler.
func (h *shiftHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := shift.ListShiftsRequest{
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.ValidationError(w, map[string]string{"limit": "limit must be a number"})
			return
		}
		req.Limit = limit
	}
	if req.Status == "" {
		req.Status = string(shift.StatusFinished) + "," + string(shift.StatusAbsent)
	}

	shifts, err := h.shiftService.ListShifts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, shift.NewShiftListResponse(shifts), &response.Meta{
		Limit:      req.ToFilter().Limit,
		TotalItems: int64(len(shifts)),
	})
}

// GetActive implements ShiftHandler.
func (h *shiftHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.shiftService.GetActiveShift(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if active == nil {
		response.Success(w, nil)
		return
	}
	response.Success(w, shift.NewShiftResponse(*active))
}

// GetNext implements ShiftHandler.
func (h *shiftHandlerImpl) GetNext(w http.ResponseWriter, r *http.Request) {
	next, err := h.shiftService.GetNextShift(r.Context(), h.clock())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if next == nil {
		response.Success(w, nil)
		return
	}
	response.Success(w, shift.NewShiftResponse(*next))
}

// GetByID implements ShiftHandler.
func (h *shiftHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	s, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.NewShiftResponse(s))
}

// Stats implements ShiftHandler.
func (h *shiftHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.shiftService.GetShiftStats(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.NewSummaryResponse(summary))
}

// Ledger implements ShiftHandler.
func (h *shiftHandlerImpl) Ledger(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.ledgerService.QueryByShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	deleted, err := h.shiftService.DeleteShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !deleted {
		response.Conflict(w, "Only scheduled shifts can be deleted")
		return
	}
	response.SuccessWithMessage(w, "Shift deleted", nil)
}

// Start implements ShiftHandler.
func (h *shiftHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	started, err := h.shiftService.StartShift(r.Context(), id)
	if err != nil {
		slog.Warn("StartShift failed", "shift_id", id, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift started", shift.NewShiftResponse(started))
}

// ToggleBreak implements ShiftHandler.
func (h *shiftHandlerImpl) ToggleBreak(w http.ResponseWriter, r *http.Request) {
	id, err := shiftID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.ToggleBreakRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	state, err := h.shiftService.ToggleBreak(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.ToggleBreakResponse{State: state})
}

// End implements ShiftHandler.
func (h *shiftHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	var req shift.EndShiftRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	finished, err := h.shiftService.EndShift(r.Context(), req.ShiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if finished == nil {
		response.SuccessWithMessage(w, "No active shift", nil)
		return
	}

	resp := shift.NewShiftResponse(*finished)
	if token, _, err := jwtauth.FromContext(r.Context()); err == nil && token != nil && h.hub != nil {
		h.hub.Publish(token.Subject(), sse.Event{Name: cron.EventShiftFinished, Data: resp})
	}
	response.SuccessWithMessage(w, "Shift finished", resp)
}

// Status implements ShiftHandler.
func (h *shiftHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.shiftService.GetDashboardStatus(r.Context(), h.clock())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.NewDashboardStatusResponse(st))
}

// OrdersAllowed implements ShiftHandler.
func (h *shiftHandlerImpl) OrdersAllowed(w http.ResponseWriter, r *http.Request) {
	allowed, reason, err := h.shiftService.IsOrderAllowed(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shift.OrderAllowedResponse{Allowed: allowed, Reason: reason})
}

// Sweep implements ShiftHandler. It runs the same transitions as the
// background job, on demand.
func (h *shiftHandlerImpl) Sweep(w http.ResponseWriter, r *http.Request) {
	finished := h.shiftService.CheckAutoUpdates(r.Context(), h.clock())
	if finished == nil {
		response.Success(w, nil)
		return
	}

	resp := shift.NewShiftResponse(*finished)
	if h.hub != nil {
		h.hub.Broadcast(sse.Event{Name: cron.EventShiftFinished, Data: resp})
	}
	response.SuccessWithMessage(w, "Shift auto-finished", resp)
}

// parseLimit reads an optional positive limit query parameter.
func parseLimit(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, validator.ValidationErrors{{Field: "limit", Message: "limit must be a positive number"}}
	}
	return n, nil
}
