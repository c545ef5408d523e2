package shift

import (
	"time"

	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a shift. It only moves
// SCHEDULED -> ACTIVE -> FINISHED or SCHEDULED -> ABSENT.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusActive    Status = "ACTIVE"
	StatusFinished  Status = "FINISHED"
	StatusAbsent    Status = "ABSENT"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusFinished, StatusAbsent:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusFinished, StatusAbsent:
		return true
	case StatusScheduled, StatusActive:
		return false
	}
	return false
}

type Shift struct {
	ID             string
	ShiftDate      interval.Date
	ScheduledStart interval.TimeOfDay
	ScheduledEnd   interval.TimeOfDay
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Status         Status
	IsLate         bool

	BreakActive          bool
	BreakStart           *time.Time
	BreakEnd             *time.Time
	BreakPlannedDuration *int // minutes
	TotalBreakTime       int  // seconds, across all breaks

	// Set only once the shift is FINISHED.
	Summary *Summary

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Instants returns the absolute start and end of the scheduled interval.
func (s Shift) Instants(loc *time.Location) (time.Time, time.Time) {
	return interval.ToInstants(s.ShiftDate, s.ScheduledStart, s.ScheduledEnd, loc)
}

// Summary aggregates the ledger entries attributed to a shift.
type Summary struct {
	Orders    int
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	NetProfit decimal.Decimal
}

type BreakState string

const (
	BreakActive   BreakState = "BREAK_ACTIVE"
	BreakInactive BreakState = "BREAK_INACTIVE"
)

type StatusState string

const (
	StateBreak        StatusState = "BREAK"
	StateShiftActive  StatusState = "SHIFT_ACTIVE"
	StateNextUpcoming StatusState = "NEXT_UPCOMING"
	StateNoShift      StatusState = "NO_SHIFT"
)

// DashboardStatus is the live status line. Which durations are set depends
// on State: BREAK has Elapsed and optionally Remaining, SHIFT_ACTIVE has
// Remaining (negative when overdue), NEXT_UPCOMING has Wait.
type DashboardStatus struct {
	State     StatusState
	Shift     *Shift
	Elapsed   *time.Duration
	Remaining *time.Duration
	Wait      *time.Duration
}

// ShiftFilter selects shifts for history listings.
type ShiftFilter struct {
	Statuses []Status
	From     *interval.Date
	To       *interval.Date
	Limit    int
	Newest   bool
}

type LatePolicy string

const (
	// LatePolicyCompare marks a shift late when it starts after scheduled_start.
	LatePolicyCompare LatePolicy = "compare"
	// LatePolicyNever always clears the late flag on start.
	LatePolicyNever LatePolicy = "never"
)

func (p LatePolicy) Valid() bool {
	return p == LatePolicyCompare || p == LatePolicyNever
}

// IsLate decides the late flag for a shift started at actualStart.
func (p LatePolicy) IsLate(actualStart, scheduledStart time.Time) bool {
	switch p {
	case LatePolicyCompare:
		return actualStart.After(scheduledStart)
	case LatePolicyNever:
		return false
	}
	return false
}

// Policy holds the tunable time rules of the lifecycle.
type Policy struct {
	EarlyStartWindow time.Duration
	AutoFinishGrace  time.Duration
	AbsentGrace      time.Duration
	LatePolicy       LatePolicy
}

func DefaultPolicy() Policy {
	return Policy{
		EarlyStartWindow: 30 * time.Minute,
		LatePolicy:       LatePolicyCompare,
	}
}
