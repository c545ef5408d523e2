package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/interval"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const shiftColumns = `id, shift_date, scheduled_start, scheduled_end, actual_start, actual_end,
	status, is_late, break_active, break_start, break_end, break_planned_duration, total_break_time,
	total_orders, total_income::text, total_expenses::text, net_profit::text, created_at, updated_at`

const uniqueViolation = "23505"

type shiftRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewShiftRepository(db *database.DB, loc *time.Location) shift.ShiftRepository {
	return &shiftRepository{db: db, loc: loc}
}

func (r *shiftRepository) scanShift(row pgx.Row) (shift.Shift, error) {
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

	for _, ts := range []struct {
		src *string
		dst **time.Time
	}{
		{actualStart, &s.ActualStart},
		{actualEnd, &s.ActualEnd},
		{breakStart, &s.BreakStart},
		{breakEnd, &s.BreakEnd},
	} {
		if ts.src == nil {
			continue
		}
		t, err := interval.ParseTimestamp(*ts.src, r.loc)
		if err != nil {
			return shift.Shift{}, err
		}
		*ts.dst = &t
	}

	if s.CreatedAt, err = interval.ParseTimestamp(createdAt, r.loc); err != nil {
		return shift.Shift{}, err
	}
	if s.UpdatedAt, err = interval.ParseTimestamp(updatedAt, r.loc); err != nil {
		return shift.Shift{}, err
	}

	if totalOrders != nil {
		summary := shift.Summary{Orders: *totalOrders}
		for _, m := range []struct {
			src *string
			dst *decimal.Decimal
		}{
			{income, &summary.Income},
			{expenses, &summary.Expenses},
			{net, &summary.NetProfit},
		} {
			if m.src == nil {
				continue
			}
			if *m.dst, err = decimal.NewFromString(*m.src); err != nil {
				return shift.Shift{}, err
			}
		}
		s.Summary = &summary
	}

	return s, nil
}

func (r *shiftRepository) collect(rows pgx.Rows) ([]shift.Shift, error) {
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

func (r *shiftRepository) timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := interval.FormatTimestamp(t.In(r.loc))
	return &s
}

func summaryArgs(s *shift.Summary) (*int, *string, *string, *string) {
	if s == nil {
		return nil, nil, nil, nil
	}
	orders := s.Orders
	income := s.Income.String()
	expenses := s.Expenses.String()
	net := s.NetProfit.String()
	return &orders, &income, &expenses, &net
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "uq_shifts_single_active" {
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
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

	s, err := r.scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	q := GetQuerier(ctx, r.db)

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, d.String())
	}

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(shiftColumns).
		From("shifts").
		Where(sq.Eq{"shift_date": keys}).
		OrderBy("shift_date ASC", "scheduled_start ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shifts by date query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts by date: %w", err)
	}
	return r.collect(rows)
}

// GetByStatus implements shift.ShiftRepository.
func (r *shiftRepository) GetByStatus(ctx context.Context, status shift.Status) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE status = $1 ORDER BY shift_date ASC, scheduled_start ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts by status: %w", err)
	}
	return r.collect(rows)
}

// GetActive implements shift.ShiftRepository.
func (r *shiftRepository) GetActive(ctx context.Context) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := r.scanShift(q.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE status = $1 LIMIT 1`, string(shift.StatusActive),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		WHERE status = $1
		  AND (shift_date > $2 OR (shift_date = $2 AND scheduled_start > $3))
		ORDER BY shift_date ASC, scheduled_start ASC
		LIMIT 1
	`

	s, err := r.scanShift(q.QueryRow(ctx, query, string(shift.StatusScheduled), date, tod))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next scheduled shift: %w", err)
	}
	return &s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(shiftColumns).
		From("shifts")

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

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return r.collect(rows)
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift, expected shift.Status) error {
	q := GetQuerier(ctx, r.db)

	orders, income, expenses, net := summaryArgs(s.Summary)

	query := `
		UPDATE shifts SET
			actual_start = $1,
			actual_end = $2,
			status = $3,
			is_late = $4,
			break_active = $5,
			break_start = $6,
			break_end = $7,
			break_planned_duration = $8,
			total_break_time = $9,
			total_orders = $10,
			total_income = $11::numeric,
			total_expenses = $12::numeric,
			net_profit = $13::numeric,
			updated_at = $14
		WHERE id = $15 AND status = $16
	`

	tag, err := q.Exec(ctx, query,
		r.timestamp(s.ActualStart),
		r.timestamp(s.ActualEnd),
		string(s.Status),
		s.IsLate,
		s.BreakActive,
		r.timestamp(s.BreakStart),
		r.timestamp(s.BreakEnd),
		s.BreakPlannedDuration,
		s.TotalBreakTime,
		orders,
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
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftStateChanged
	}
	return nil
}

// DeleteScheduled implements shift.ShiftRepository.
func (r *shiftRepository) DeleteScheduled(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1 AND status = $2`, id, string(shift.StatusScheduled))
	if err != nil {
		return false, fmt.Errorf("failed to delete shift: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
