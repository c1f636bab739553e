package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceDayColumns = `
	a.id, a.employee_id, a.date, a.state,
	a.net_minutes, a.break_minutes, a.late_minutes,
	a.early_leave_minutes, a.overtime_minutes, a.status,
	a.created_at, a.updated_at`

func (r *attendanceRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, date, state,
			net_minutes, break_minutes, late_minutes,
			early_leave_minutes, overtime_minutes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ID, day.EmployeeID, day.Date, day.State,
		day.NetMinutes, day.BreakMinutes, day.LateMinutes,
		day.EarlyLeaveMinutes, day.OvertimeMinutes, day.Status,
	).Scan(&day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	if err := r.insertChildren(ctx, day); err != nil {
		return attendance.AttendanceDay{}, err
	}
	return day, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceDayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1 AND a.date = $2
	`

	day, err := scanAttendanceDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance day: %w", err)
	}

	if err := r.loadChildren(ctx, []*attendance.AttendanceDay{&day}); err != nil {
		return nil, err
	}
	return &day, nil
}

// Save rewrites the day row together with its events and breaks. Callers
// run it inside a transaction so the child rewrite is atomic.
func (r *attendanceRepository) Save(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET state = $2,
			net_minutes = $3,
			break_minutes = $4,
			late_minutes = $5,
			early_leave_minutes = $6,
			overtime_minutes = $7,
			status = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		day.ID, day.State, day.NetMinutes, day.BreakMinutes,
		day.LateMinutes, day.EarlyLeaveMinutes, day.OvertimeMinutes, day.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	if _, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE attendance_day_id = $1`, day.ID); err != nil {
		return fmt.Errorf("failed to clear attendance events: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM attendance_breaks WHERE attendance_day_id = $1`, day.ID); err != nil {
		return fmt.Errorf("failed to clear attendance breaks: %w", err)
	}
	return r.insertChildren(ctx, day)
}

func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceDayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	return r.collectWithChildren(ctx, rows)
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceDayColumns + `, e.full_name
		FROM attendance_days a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		var day attendance.AttendanceDay
		err := rows.Scan(
			&day.ID, &day.EmployeeID, &day.Date, &day.State,
			&day.NetMinutes, &day.BreakMinutes, &day.LateMinutes,
			&day.EarlyLeaveMinutes, &day.OvertimeMinutes, &day.Status,
			&day.CreatedAt, &day.UpdatedAt,
			&day.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*attendance.AttendanceDay, len(days))
	for i := range days {
		refs[i] = &days[i]
	}
	if err := r.loadChildren(ctx, refs); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *attendanceRepository) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceDayColumns + `
		FROM attendance_days a
		WHERE a.state = 'checked_in'
		  AND EXISTS (
			SELECT 1 FROM attendance_events ev
			WHERE ev.attendance_day_id = a.id
			  AND ev.type = 'check_in'
			  AND ev.timestamp < $1
		  )
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale attendance days: %w", err)
	}
	return r.collectWithChildren(ctx, rows)
}

func (r *attendanceRepository) collectWithChildren(ctx context.Context, rows pgx.Rows) ([]attendance.AttendanceDay, error) {
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		day, err := scanAttendanceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*attendance.AttendanceDay, len(days))
	for i := range days {
		refs[i] = &days[i]
	}
	if err := r.loadChildren(ctx, refs); err != nil {
		return nil, err
	}
	return days, nil
}

func scanAttendanceDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Date, &day.State,
		&day.NetMinutes, &day.BreakMinutes, &day.LateMinutes,
		&day.EarlyLeaveMinutes, &day.OvertimeMinutes, &day.Status,
		&day.CreatedAt, &day.UpdatedAt,
	)
	return day, err
}

func (r *attendanceRepository) insertChildren(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	for i, ev := range day.Events {
		_, err := q.Exec(ctx, `
			INSERT INTO attendance_events (attendance_day_id, seq, type, timestamp, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, day.ID, i, ev.Type, ev.Timestamp, ev.Latitude, ev.Longitude)
		if err != nil {
			return fmt.Errorf("failed to insert attendance event: %w", err)
		}
	}
	for i, b := range day.Breaks {
		_, err := q.Exec(ctx, `
			INSERT INTO attendance_breaks (attendance_day_id, seq, started_at, ended_at)
			VALUES ($1, $2, $3, $4)
		`, day.ID, i, b.StartedAt, b.EndedAt)
		if err != nil {
			return fmt.Errorf("failed to insert attendance break: %w", err)
		}
	}
	return nil
}

// loadChildren attaches events and breaks to the given days in one query
// per table.
func (r *attendanceRepository) loadChildren(ctx context.Context, days []*attendance.AttendanceDay) error {
	if len(days) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(days))
	byID := make(map[string]*attendance.AttendanceDay, len(days))
	for i, d := range days {
		ids[i] = d.ID
		byID[d.ID] = d
	}

	eventRows, err := q.Query(ctx, `
		SELECT attendance_day_id, type, timestamp, latitude, longitude
		FROM attendance_events
		WHERE attendance_day_id = ANY($1)
		ORDER BY attendance_day_id, seq
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load attendance events: %w", err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var (
			dayID string
			ev    attendance.CheckEvent
		)
		if err := eventRows.Scan(&dayID, &ev.Type, &ev.Timestamp, &ev.Latitude, &ev.Longitude); err != nil {
			return fmt.Errorf("failed to scan attendance event: %w", err)
		}
		if d, ok := byID[dayID]; ok {
			d.Events = append(d.Events, ev)
		}
	}
	if err := eventRows.Err(); err != nil {
		return err
	}

	breakRows, err := q.Query(ctx, `
		SELECT attendance_day_id, started_at, ended_at
		FROM attendance_breaks
		WHERE attendance_day_id = ANY($1)
		ORDER BY attendance_day_id, seq
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load attendance breaks: %w", err)
	}
	defer breakRows.Close()

	for breakRows.Next() {
		var (
			dayID string
			b     attendance.BreakInterval
		)
		if err := breakRows.Scan(&dayID, &b.StartedAt, &b.EndedAt); err != nil {
			return fmt.Errorf("failed to scan attendance break: %w", err)
		}
		if d, ok := byID[dayID]; ok {
			d.Breaks = append(d.Breaks, b)
		}
	}
	return breakRows.Err()
}
