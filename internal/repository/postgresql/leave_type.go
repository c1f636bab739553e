package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

const leaveTypeColumns = `
	id, code, name, description,
	accrual_enabled, accrual_frequency, days_per_year, accrual_cap,
	carry_forward_enabled, carry_forward_max_days, carry_forward_expiry_months,
	encashment_enabled, encashment_max_days,
	requires_proof, count_weekends, count_holidays,
	is_active, created_at, updated_at`

func (r *leaveTypeRepository) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (
			id, code, name, description,
			accrual_enabled, accrual_frequency, days_per_year, accrual_cap,
			carry_forward_enabled, carry_forward_max_days, carry_forward_expiry_months,
			encashment_enabled, encashment_max_days,
			requires_proof, count_weekends, count_holidays, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lt.ID, lt.Code, lt.Name, lt.Description,
		lt.Accrual.Enabled, lt.Accrual.Frequency, lt.Accrual.DaysPerYear, lt.Accrual.Cap,
		lt.CarryForward.Enabled, lt.CarryForward.MaxDays, lt.CarryForward.ExpiryMonths,
		lt.Encashment.Enabled, lt.Encashment.MaxDays,
		lt.RequiresProof, lt.CountWeekends, lt.CountHolidays, lt.IsActive,
	).Scan(&lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveTypeColumns + ` FROM leave_types WHERE id = $1`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepository) GetByCode(ctx context.Context, code string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveTypeColumns + ` FROM leave_types WHERE code = $1`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type by code: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveTypeColumns + ` FROM leave_types WHERE is_active = TRUE ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.Code, &lt.Name, &lt.Description,
		&lt.Accrual.Enabled, &lt.Accrual.Frequency, &lt.Accrual.DaysPerYear, &lt.Accrual.Cap,
		&lt.CarryForward.Enabled, &lt.CarryForward.MaxDays, &lt.CarryForward.ExpiryMonths,
		&lt.Encashment.Enabled, &lt.Encashment.MaxDays,
		&lt.RequiresProof, &lt.CountWeekends, &lt.CountHolidays,
		&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}
