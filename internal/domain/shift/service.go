package shift

import (
	"context"
	"time"
)

// ScheduleService manages shift templates and the holiday calendar.
type ScheduleService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	ListShifts(ctx context.Context) ([]ShiftResponse, error)

	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)

	ListHolidays(ctx context.Context, from, to time.Time) ([]HolidayResponse, error)
}
