package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (id, name, start_time, end_time, weekdays, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.Name, s.StartTime.Format("15:04"), s.EndTime.Format("15:04"),
		int(s.Weekdays), s.IsDefault,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, weekdays, is_default, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) GetDefault(ctx context.Context) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, weekdays, is_default, created_at, updated_at
		FROM shifts
		WHERE is_default = TRUE
		LIMIT 1
	`

	s, err := scanShift(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrNoDefaultShift
		}
		return shift.Shift{}, fmt.Errorf("failed to get default shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, weekdays, is_default, created_at, updated_at
		FROM shifts
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var out []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// scanShift reads a shifts row. start_time and end_time are stored as
// "HH:MM" text since only the clock component matters.
func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s          shift.Shift
		start, end string
		weekdays   int
	)
	err := row.Scan(&s.ID, &s.Name, &start, &end, &weekdays, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, err
	}
	if s.StartTime, err = time.Parse("15:04", start); err != nil {
		return shift.Shift{}, fmt.Errorf("invalid shift start time %q: %w", start, err)
	}
	if s.EndTime, err = time.Parse("15:04", end); err != nil {
		return shift.Shift{}, fmt.Errorf("invalid shift end time %q: %w", end, err)
	}
	s.Weekdays = shift.Weekdays(weekdays)
	return s, nil
}

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) shift.HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) Create(ctx context.Context, h shift.Holiday) (shift.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (id, date, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if err := q.QueryRow(ctx, query, h.ID, h.Date, h.Name).Scan(&h.CreatedAt); err != nil {
		return shift.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

func (r *holidayRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]shift.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, name, created_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var out []shift.Holiday
	for rows.Next() {
		var h shift.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *holidayRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM holidays WHERE date = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}
