package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance days.
type AttendanceRepository interface {
	// Create inserts a fresh day with its initial events.
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// GetByEmployeeAndDate returns nil when no day exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)

	// Save persists the day's state, events, breaks and cached
	// aggregates. Events are only ever appended by callers.
	Save(ctx context.Context, day AttendanceDay) error

	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceDay, error)

	ListByDate(ctx context.Context, date time.Time) ([]AttendanceDay, error)

	// ListStaleOpen returns days still holding an open session whose
	// last check-in is older than the cutoff.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]AttendanceDay, error)
}
