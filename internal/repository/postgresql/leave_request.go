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

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	r.id, r.employee_id, r.leave_type_id,
	r.from_date, r.to_date, r.is_half_day, r.half_type,
	r.total_days, r.comp_off_days, r.reason, r.proof_url, r.is_backdate,
	r.status, r.approved_by, r.approved_at, r.rejection_reason,
	r.cancelled_by, r.cancelled_at, r.created_at, r.updated_at`

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			from_date, to_date, is_half_day, half_type,
			total_days, comp_off_days, reason, proof_url, is_backdate, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.LeaveTypeID,
		req.FromDate, req.ToDate, req.IsHalfDay, req.HalfType,
		req.TotalDays, req.CompOffDays, req.Reason, req.ProofURL, req.IsBackdate, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveRequestColumns + `, lt.name, e.full_name
		FROM leave_requests r
		JOIN leave_types lt ON lt.id = r.leave_type_id
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
	`

	var req leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.FromDate, &req.ToDate, &req.IsHalfDay, &req.HalfType,
		&req.TotalDays, &req.CompOffDays, &req.Reason, &req.ProofURL, &req.IsBackdate,
		&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason,
		&req.CancelledBy, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
		&req.LeaveTypeName, &req.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			comp_off_days = $3,
			approved_by = $4,
			approved_at = $5,
			rejection_reason = $6,
			cancelled_by = $7,
			cancelled_at = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		req.ID, req.Status, req.CompOffDays,
		req.ApprovedBy, req.ApprovedAt, req.RejectionReason,
		req.CancelledBy, req.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepository) HasOverlap(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND from_date <= $3
			  AND to_date >= $2
			  AND ($4 = '' OR id <> $4)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, from, to, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveRequestColumns + `, lt.name
		FROM leave_requests r
		JOIN leave_types lt ON lt.id = r.leave_type_id
		WHERE r.employee_id = $1 AND EXTRACT(YEAR FROM r.from_date) = $2
		ORDER BY r.from_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.FromDate, &req.ToDate, &req.IsHalfDay, &req.HalfType,
			&req.TotalDays, &req.CompOffDays, &req.Reason, &req.ProofURL, &req.IsBackdate,
			&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason,
			&req.CancelledBy, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
			&req.LeaveTypeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *leaveRequestRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveRequestColumns + `
		FROM leave_requests r
		WHERE r.employee_id = $1
		  AND r.status = 'approved'
		  AND r.from_date <= $3
		  AND r.to_date >= $2
		ORDER BY r.from_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.FromDate, &req.ToDate, &req.IsHalfDay, &req.HalfType,
			&req.TotalDays, &req.CompOffDays, &req.Reason, &req.ProofURL, &req.IsBackdate,
			&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason,
			&req.CancelledBy, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
