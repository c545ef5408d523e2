package shift

import (
	"strings"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT REQUESTS
// ========================================

type AddShiftRequest struct {
	ShiftDate string `json:"shift_date" validate:"required,ymd"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

func (r *AddShiftRequest) Validate() error {
	r.ShiftDate = strings.TrimSpace(r.ShiftDate)
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	return validator.Struct(r)
}

type ToggleBreakRequest struct {
	PlannedMinutes *int `json:"planned_minutes,omitempty" validate:"omitempty,gt=0,lte=720"`
}

func (r *ToggleBreakRequest) Validate() error {
	return validator.Struct(r)
}

type EndShiftRequest struct {
	ShiftID *string `json:"shift_id,omitempty"`
}

func (r *EndShiftRequest) Validate() error {
	if r.ShiftID == nil {
		return nil
	}
	if validator.IsEmpty(*r.ShiftID) {
		return validator.ValidationErrors{{
			Field:   "shift_id",
			Message: "shift_id must not be blank",
		}}
	}
	if !validator.IsValidUUID(*r.ShiftID) {
		return validator.ValidationErrors{{
			Field:   "shift_id",
			Message: "shift_id must be a valid UUID",
		}}
	}
	return nil
}

// ListShiftsRequest is built from query parameters of the history listing.
type ListShiftsRequest struct {
	Status string `json:"status"` // comma separated
	From   string `json:"from" validate:"omitempty,ymd"`
	To     string `json:"to" validate:"omitempty,ymd"`
	Limit  int    `json:"limit" validate:"gte=0,lte=500"`
}

func (r *ListShiftsRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	for _, s := range r.statuses() {
		if !s.Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: SCHEDULED, ACTIVE, FINISHED, ABSENT",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListShiftsRequest) statuses() []Status {
	var out []Status
	for _, part := range strings.Split(r.Status, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, Status(part))
		}
	}
	return out
}

// ToFilter converts a validated request into a repository filter.
func (r *ListShiftsRequest) ToFilter() ShiftFilter {
	filter := ShiftFilter{
		Statuses: r.statuses(),
		Limit:    r.Limit,
		Newest:   true,
	}
	if d, err := interval.ParseDate(r.From); err == nil {
		filter.From = &d
	}
	if d, err := interval.ParseDate(r.To); err == nil {
		filter.To = &d
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	return filter
}

// ========================================
// SHIFT RESPONSES
// ========================================

type SummaryResponse struct {
	TotalOrders   int    `json:"total_orders"`
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	NetProfit     string `json:"net_profit"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		TotalOrders:   s.Orders,
		TotalIncome:   s.Income.StringFixed(2),
		TotalExpenses: s.Expenses.StringFixed(2),
		NetProfit:     s.NetProfit.StringFixed(2),
	}
}

type ShiftResponse struct {
	ID                   string           `json:"id"`
	ShiftDate            string           `json:"shift_date"`
	ScheduledStart       string           `json:"scheduled_start"`
	ScheduledEnd         string           `json:"scheduled_end"`
	ActualStart          *string          `json:"actual_start"`
	ActualEnd            *string          `json:"actual_end"`
	Status               Status           `json:"status"`
	IsLate               bool             `json:"is_late"`
	BreakActive          bool             `json:"break_active"`
	BreakStart           *string          `json:"break_start"`
	BreakEnd             *string          `json:"break_end"`
	BreakPlannedDuration *int             `json:"break_planned_duration"`
	TotalBreakTime       int              `json:"total_break_time"`
	Summary              *SummaryResponse `json:"summary"`
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := interval.FormatTimestamp(*t)
	return &s
}

func NewShiftResponse(s Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:                   s.ID,
		ShiftDate:            s.ShiftDate.String(),
		ScheduledStart:       s.ScheduledStart.String(),
		ScheduledEnd:         s.ScheduledEnd.String(),
		ActualStart:          formatTimestamp(s.ActualStart),
		ActualEnd:            formatTimestamp(s.ActualEnd),
		Status:               s.Status,
		IsLate:               s.IsLate,
		BreakActive:          s.BreakActive,
		BreakStart:           formatTimestamp(s.BreakStart),
		BreakEnd:             formatTimestamp(s.BreakEnd),
		BreakPlannedDuration: s.BreakPlannedDuration,
		TotalBreakTime:       s.TotalBreakTime,
	}
	if s.Summary != nil {
		summary := NewSummaryResponse(*s.Summary)
		resp.Summary = &summary
	}
	return resp
}

func NewShiftListResponse(shifts []Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, NewShiftResponse(s))
	}
	return out
}

type ToggleBreakResponse struct {
	State BreakState `json:"state"`
}

type DashboardStatusResponse struct {
	State            StatusState    `json:"state"`
	Shift            *ShiftResponse `json:"shift,omitempty"`
	ElapsedSeconds   *int64         `json:"elapsed_seconds,omitempty"`
	RemainingSeconds *int64         `json:"remaining_seconds,omitempty"`
	WaitSeconds      *int64         `json:"wait_seconds,omitempty"`
}

func seconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(d.Seconds())
	return &s
}

func NewDashboardStatusResponse(st DashboardStatus) DashboardStatusResponse {
	resp := DashboardStatusResponse{
		State:            st.State,
		ElapsedSeconds:   seconds(st.Elapsed),
		RemainingSeconds: seconds(st.Remaining),
		WaitSeconds:      seconds(st.Wait),
	}
	if st.Shift != nil {
		s := NewShiftResponse(*st.Shift)
		resp.Shift = &s
	}
	return resp
}

type OrderAllowedResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
