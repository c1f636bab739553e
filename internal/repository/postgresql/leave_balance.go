package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	b.id, b.employee_id, b.leave_type_id, b.year,
	b.entitled, b.carried_forward, b.carry_forward_expiry,
	b.additional, b.used, b.created_at, b.updated_at`

func (r *leaveBalanceRepository) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			entitled, carried_forward, carry_forward_expiry, additional, used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.ID, balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.Entitled, balance.CarriedForward, balance.CarryForwardExpiry,
		balance.Additional, balance.Used,
	).Scan(&balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		// A concurrent insert won the unique constraint race; return the
		// row that exists.
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByEmployeeTypeYear(ctx, balance.EmployeeID, balance.LeaveTypeID, balance.Year)
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return balance, nil
}

func (r *leaveBalanceRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.get(ctx, employeeID, leaveTypeID, year, "")
}

func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.get(ctx, employeeID, leaveTypeID, year, " FOR UPDATE")
}

func (r *leaveBalanceRepository) get(ctx context.Context, employeeID, leaveTypeID string, year int, suffix string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveBalanceColumns + `
		FROM leave_balances b
		WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3` + suffix

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}

func (r *leaveBalanceRepository) UpdateAmounts(ctx context.Context, balance leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET entitled = $2,
			carried_forward = $3,
			carry_forward_expiry = $4,
			additional = $5,
			used = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		balance.ID, balance.Entitled, balance.CarriedForward,
		balance.CarryForwardExpiry, balance.Additional, balance.Used,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveBalanceColumns + `, lt.code
		FROM leave_balances b
		JOIN leave_types lt ON lt.id = b.leave_type_id
		WHERE b.employee_id = $1 AND b.year = $2
		ORDER BY lt.code
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.Entitled, &b.CarriedForward, &b.CarryForwardExpiry,
			&b.Additional, &b.Used, &b.CreatedAt, &b.UpdatedAt,
			&b.LeaveTypeCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *leaveBalanceRepository) ListExpiredCarryForward(ctx context.Context, asOf time.Time) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveBalanceColumns + `
		FROM leave_balances b
		WHERE b.carried_forward > 0
		  AND b.carry_forward_expiry IS NOT NULL
		  AND b.carry_forward_expiry < $1
		ORDER BY b.employee_id
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired carry-forward balances: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.Entitled, &b.CarriedForward, &b.CarryForwardExpiry,
		&b.Additional, &b.Used, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
