package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

// Service resolves the work calendar shared by attendance and leave
// day-counting: shift weekdays plus the holiday table.
type Service struct {
	holidayRepo shift.HolidayRepository
}

func NewService(holidayRepo shift.HolidayRepository) *Service {
	return &Service{holidayRepo: holidayRepo}
}

// IsWorkingDay reports whether date is a working day under the given
// shift: an active weekday that is not a holiday.
func (s *Service) IsWorkingDay(ctx context.Context, date time.Time, sh shift.Shift) (bool, error) {
	if !sh.Weekdays.ActiveOn(date.Weekday()) {
		return false, nil
	}
	isHoliday, err := s.holidayRepo.IsHoliday(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return !isHoliday, nil
}

// CountLeaveDays computes how many days a leave request consumes.
// A half-day request short-circuits to 0.5; the caller guarantees it
// covers a single date. Otherwise the range is walked inclusively,
// skipping Saturdays/Sundays unless includeWeekends and holiday dates
// unless includeHolidays.
func (s *Service) CountLeaveDays(ctx context.Context, from, to time.Time, isHalfDay, includeWeekends, includeHolidays bool) (float64, error) {
	if from.After(to) {
		return 0, fmt.Errorf("from date %s is after to date %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	if isHalfDay {
		return 0.5, nil
	}

	holidaySet := make(map[string]bool)
	if !includeHolidays {
		holidays, err := s.holidayRepo.GetByDateRange(ctx, from, to)
		if err != nil {
			return 0, fmt.Errorf("failed to get holidays: %w", err)
		}
		for _, h := range holidays {
			holidaySet[h.Date.Format("2006-01-02")] = true
		}
	}

	var days float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !includeWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		if holidaySet[d.Format("2006-01-02")] {
			continue
		}
		days++
	}

	return days, nil
}
