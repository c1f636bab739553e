package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type compOffRepository struct {
	db *database.DB
}

func NewCompOffRepository(db *database.DB) leave.CompOffRepository {
	return &compOffRepository{db: db}
}

func (r *compOffRepository) Create(ctx context.Context, credit leave.CompOffCredit) (leave.CompOffCredit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO comp_off_credits (id, employee_id, earned_date, days, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		credit.ID, credit.EmployeeID, credit.EarnedDate, credit.Days, credit.ExpiresAt,
	).Scan(&credit.CreatedAt, &credit.UpdatedAt)
	if err != nil {
		return leave.CompOffCredit{}, fmt.Errorf("failed to create comp-off credit: %w", err)
	}
	return credit, nil
}

func (r *compOffRepository) ListAvailable(ctx context.Context, employeeID string, asOf time.Time) ([]leave.CompOffCredit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, earned_date, days, used, used_by_request_id,
			expires_at, created_at, updated_at
		FROM comp_off_credits
		WHERE employee_id = $1
		  AND used = FALSE
		  AND (expires_at IS NULL OR expires_at >= $2)
		ORDER BY earned_date
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, employeeID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list comp-off credits: %w", err)
	}
	defer rows.Close()

	var out []leave.CompOffCredit
	for rows.Next() {
		var c leave.CompOffCredit
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.EarnedDate, &c.Days, &c.Used,
			&c.UsedByRequestID, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comp-off credit: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *compOffRepository) MarkUsed(ctx context.Context, creditID, requestID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE comp_off_credits
		SET used = TRUE, used_by_request_id = $2, updated_at = NOW()
		WHERE id = $1 AND used = FALSE
	`

	tag, err := q.Exec(ctx, query, creditID, requestID)
	if err != nil {
		return fmt.Errorf("failed to mark comp-off credit used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrCompOffNotFound
	}
	return nil
}

func (r *compOffRepository) ReleaseByRequest(ctx context.Context, requestID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE comp_off_credits
		SET used = FALSE, used_by_request_id = NULL, updated_at = NOW()
		WHERE used_by_request_id = $1
	`

	if _, err := q.Exec(ctx, query, requestID); err != nil {
		return fmt.Errorf("failed to release comp-off credits: %w", err)
	}
	return nil
}
