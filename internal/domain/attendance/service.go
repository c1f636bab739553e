package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance tracking.
// Operations for the same employee serialize; different employees run in
// parallel.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckRequest) (DayResponse, error)

	CheckOut(ctx context.Context, req CheckRequest) (DayResponse, error)

	StartBreak(ctx context.Context, req BreakRequest) (DayResponse, error)

	StopBreak(ctx context.Context, req BreakRequest) (DayResponse, error)

	// GetDay returns the day with provisional aggregates when a session
	// is still open.
	GetDay(ctx context.Context, employeeID string, date time.Time) (DayResponse, error)

	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]DayResponse, error)

	// AutoCloseStale closes sessions left open past the cutoff at the
	// employee's scheduled shift end. Returns the number closed.
	AutoCloseStale(ctx context.Context, cutoff time.Time) (int, error)
}
