package lifecycle

import (
	"context"
)

// EventRepository is append-only: events are never updated or deleted.
type EventRepository interface {
	Append(ctx context.Context, event Event) (Event, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Event, error)
}
