package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type lifecycleEventRepository struct {
	db *database.DB
}

func NewLifecycleEventRepository(db *database.DB) lifecycle.EventRepository {
	return &lifecycleEventRepository{db: db}
}

func (r *lifecycleEventRepository) Append(ctx context.Context, event lifecycle.Event) (lifecycle.Event, error) {
	q := GetQuerier(ctx, r.db)

	var metadata []byte
	if event.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(event.Metadata); err != nil {
			return lifecycle.Event{}, fmt.Errorf("failed to encode event metadata: %w", err)
		}
	}

	query := `
		INSERT INTO lifecycle_events (
			id, employee_id, type, old_value, new_value, metadata, triggered_by, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		event.ID, event.EmployeeID, event.Type,
		event.OldValue, event.NewValue, metadata,
		event.TriggeredBy, event.OccurredAt,
	)
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("failed to append lifecycle event: %w", err)
	}
	return event, nil
}

func (r *lifecycleEventRepository) ListByEmployee(ctx context.Context, employeeID string) ([]lifecycle.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, old_value, new_value, metadata, triggered_by, occurred_at
		FROM lifecycle_events
		WHERE employee_id = $1
		ORDER BY occurred_at, id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lifecycle events: %w", err)
	}
	defer rows.Close()

	var out []lifecycle.Event
	for rows.Next() {
		var (
			ev       lifecycle.Event
			metadata []byte
		)
		err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.Type, &ev.OldValue, &ev.NewValue,
			&metadata, &ev.TriggeredBy, &ev.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lifecycle event: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode event metadata: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
