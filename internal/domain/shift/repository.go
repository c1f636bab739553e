package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	GetDefault(ctx context.Context) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
}

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)

	// GetByDateRange returns holidays with from <= date <= to.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]Holiday, error)

	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}
