package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const shiftColumns = `id, shift_date, scheduled_start, scheduled_end, actual_start, actual_end,
	status, is_late, break_active, break_start, break_end, break_planned_duration, total_break_time,
	total_orders, total_income, total_expenses, net_profit, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type shiftRepository struct {
	db  *database.SQLiteDB
	loc *time.Location
}

func NewShiftRepository(db *database.SQLiteDB, loc *time.Location) shift.ShiftRepository {
	return &shiftRepository{db: db, loc: loc}
}

func (r *shiftRepository) scanShift(row rowScanner) (shift.Shift, error) {
	var (
		s                        shift.Shift
		date, start, end, status string
		actualStart, actualEnd   *string
		breakStart, breakEnd     *string
		totalOrders              *int
		income, expenses, net    *string
		createdAt, updatedAt     string
	)
	err := row.Scan(
		&s.ID, &date, &start, &end, &actualStart, &actualEnd,
		&status, &s.IsLate, &s.BreakActive, &breakStart, &breakEnd, &s.BreakPlannedDuration, &s.TotalBreakTime,
		&totalOrders, &income, &expenses, &net, &createdAt, &updatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}

	if s.ShiftDate, err = interval.ParseDate(date); err != nil {
		return shift.Shift{}, err
	}
	if s.ScheduledStart, err = interval.ParseTimeOfDay(start); err != nil {
		return shift.Shift{}, err
	}
	if s.ScheduledEnd, err = interval.ParseTimeOfDay(end); err != nil {
		return shift.Shift{}, err
	}
	s.Status = shift.Status(status)

	if s.ActualStart, err = r.parseTimestamp(actualStart); err != nil {
		return shift.Shift{}, err
	}
	if s.ActualEnd, err = r.parseTimestamp(actualEnd); err != nil {
		return shift.Shift{}, err
	}
	if s.BreakStart, err = r.parseTimestamp(breakStart); err != nil {
		return shift.Shift{}, err
	}
	if s.BreakEnd, err = r.parseTimestamp(breakEnd); err != nil {
		return shift.Shift{}, err
	}
	if s.CreatedAt, err = interval.ParseTimestamp(createdAt, r.loc); err != nil {
		return shift.Shift{}, err
	}
	if s.UpdatedAt, err = interval.ParseTimestamp(updatedAt, r.loc); err != nil {
		return shift.Shift{}, err
	}

	if totalOrders != nil {
		summary := shift.Summary{Orders: *totalOrders}
		if summary.Income, err = parseAmount(income); err != nil {
			return shift.Shift{}, err
		}
		if summary.Expenses, err = parseAmount(expenses); err != nil {
			return shift.Shift{}, err
		}
		if summary.NetProfit, err = parseAmount(net); err != nil {
			return shift.Shift{}, err
		}
		s.Summary = &summary
	}

	return s, nil
}

func (r *shiftRepository) parseTimestamp(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := interval.ParseTimestamp(*s, r.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *shiftRepository) formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := interval.FormatTimestamp(t.In(r.loc))
	return &s
}

func parseAmount(s *string) (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*s)
}

func (r *shiftRepository) query(ctx context.Context, query string, args ...interface{}) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []shift.Shift{}
	for rows.Next() {
		s, err := r.scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shifts, nil
}

func mapWriteError(err error) error {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) &&
		sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE &&
		strings.Contains(sqliteErr.Error(), "shifts.status") {
		return shift.ErrAnotherShiftActive
	}
	return err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, shift_date, scheduled_start, scheduled_end, status,
			is_late, break_active, total_break_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		s.ID,
		s.ShiftDate.String(),
		s.ScheduledStart.String(),
		s.ScheduledEnd.String(),
		string(s.Status),
		s.IsLate,
		s.BreakActive,
		s.TotalBreakTime,
		interval.FormatTimestamp(s.CreatedAt.In(r.loc)),
		interval.FormatTimestamp(s.UpdatedAt.In(r.loc)),
	)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", mapWriteError(err))
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := r.scanShift(q.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}
	return s, nil
}

// GetByDates implements shift.ShiftRepository.
func (r *shiftRepository) GetByDates(ctx context.Context, dates ...interval.Date) ([]shift.Shift, error) {
	if len(dates) == 0 {
		return []shift.Shift{}, nil
	}

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, d.String())
	}

	query, args, err := sq.Select(shiftColumns).
		From("shifts").
		Where(sq.Eq{"shift_date": keys}).
		OrderBy("shift_date ASC", "scheduled_start ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shifts by date query: %w", err)
	}

	shifts, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts by date: %w", err)
	}
	return shifts, nil
}

// GetByStatus implements shift.ShiftRepository.
func (r *shiftRepository) GetByStatus(ctx context.Context, status shift.Status) ([]shift.Shift, error) {
	shifts, err := r.query(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE status = ? ORDER BY shift_date ASC, scheduled_start ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts by status: %w", err)
	}
	return shifts, nil
}

// GetActive implements shift.ShiftRepository.
func (r *shiftRepository) GetActive(ctx context.Context) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := r.scanShift(q.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE status = ? LIMIT 1`, string(shift.StatusActive),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return &s, nil
}

// GetNextScheduled implements shift.ShiftRepository.
func (r *shiftRepository) GetNextScheduled(ctx context.Context, now time.Time) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	local := now.In(r.loc)
	date := interval.DateOf(local).String()
	tod := interval.TimeOfDayOf(local).String()

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE status = ?
		  AND (shift_date > ? OR (shift_date = ? AND scheduled_start > ?))
		ORDER BY shift_date ASC, scheduled_start ASC
		LIMIT 1
	`

	s, err := r.scanShift(q.QueryRowContext(ctx, query, string(shift.StatusScheduled), date, date, tod))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next scheduled shift: %w", err)
	}
	return &s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, error) {
	builder := sq.Select(shiftColumns).From("shifts")

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"shift_date": filter.From.String()})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"shift_date": filter.To.String()})
	}
	if filter.Newest {
		builder = builder.OrderBy("shift_date DESC", "scheduled_start DESC")
	} else {
		builder = builder.OrderBy("shift_date ASC", "scheduled_start ASC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list shifts query: %w", err)
	}

	shifts, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift, expected shift.Status) error {
	q := GetQuerier(ctx, r.db)

	var (
		totalOrders           *int
		income, expenses, net *string
	)
	if s.Summary != nil {
		orders := s.Summary.Orders
		in, out, profit := s.Summary.Income.String(), s.Summary.Expenses.String(), s.Summary.NetProfit.String()
		totalOrders, income, expenses, net = &orders, &in, &out, &profit
	}

	query := `
		UPDATE shifts SET
			actual_start = ?,
			actual_end = ?,
			status = ?,
			is_late = ?,
			break_active = ?,
			break_start = ?,
			break_end = ?,
			break_planned_duration = ?,
			total_break_time = ?,
			total_orders = ?,
			total_income = ?,
			total_expenses = ?,
			net_profit = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`

	res, err := q.ExecContext(ctx, query,
		r.formatTimestamp(s.ActualStart),
		r.formatTimestamp(s.ActualEnd),
		string(s.Status),
		s.IsLate,
		s.BreakActive,
		r.formatTimestamp(s.BreakStart),
		r.formatTimestamp(s.BreakEnd),
		s.BreakPlannedDuration,
		s.TotalBreakTime,
		totalOrders,
		income,
		expenses,
		net,
		interval.FormatTimestamp(s.UpdatedAt.In(r.loc)),
		s.ID,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", mapWriteError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return shift.ErrShiftStateChanged
	}
	return nil
}

// DeleteScheduled implements shift.ShiftRepository.
func (r *shiftRepository) DeleteScheduled(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM shifts WHERE id = ? AND status = ?`, id, string(shift.StatusScheduled))
	if err != nil {
		return false, fmt.Errorf("failed to delete shift: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}
