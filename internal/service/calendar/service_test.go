package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

type fakeHolidayRepo struct {
	holidays map[string]shift.Holiday
}

func newFakeHolidayRepo(dates ...string) *fakeHolidayRepo {
	r := &fakeHolidayRepo{holidays: make(map[string]shift.Holiday)}
	for _, d := range dates {
		date, _ := time.Parse("2006-01-02", d)
		r.holidays[d] = shift.Holiday{Date: date, Name: "holiday"}
	}
	return r
}

func (r *fakeHolidayRepo) Create(_ context.Context, h shift.Holiday) (shift.Holiday, error) {
	r.holidays[h.Date.Format("2006-01-02")] = h
	return h, nil
}

func (r *fakeHolidayRepo) GetByDateRange(_ context.Context, from, to time.Time) ([]shift.Holiday, error) {
	var out []shift.Holiday
	for _, h := range r.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	_, ok := r.holidays[date.Format("2006-01-02")]
	return ok, nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestIsWorkingDay(t *testing.T) {
	svc := NewService(newFakeHolidayRepo("2026-01-01"))
	monFri := shift.Shift{Weekdays: shift.WeekdaysMonFri}

	tests := []struct {
		name     string
		date     string
		expected bool
	}{
		{name: "regular weekday", date: "2026-01-05", expected: true},
		{name: "saturday outside shift", date: "2026-01-03", expected: false},
		{name: "sunday outside shift", date: "2026-01-04", expected: false},
		{name: "holiday on a weekday", date: "2026-01-01", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsWorkingDay(context.Background(), mustDate(t, tt.date), monFri)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCountLeaveDays(t *testing.T) {
	// 2026-01-01 is a Thursday and a holiday.
	svc := NewService(newFakeHolidayRepo("2026-01-01"))

	tests := []struct {
		name            string
		from            string
		to              string
		isHalfDay       bool
		includeWeekends bool
		includeHolidays bool
		expected        float64
	}{
		{
			name:     "half day is half regardless of range flags",
			from:     "2026-01-05", to: "2026-01-05",
			isHalfDay: true,
			expected:  0.5,
		},
		{
			name: "single weekday",
			from: "2026-01-05", to: "2026-01-05",
			expected: 1,
		},
		{
			name: "monday to friday",
			from: "2026-01-05", to: "2026-01-09",
			expected: 5,
		},
		{
			name: "spanning weekend skips saturday and sunday",
			from: "2026-01-09", to: "2026-01-12",
			expected: 2,
		},
		{
			name: "spanning weekend counts it when included",
			from: "2026-01-09", to: "2026-01-12",
			includeWeekends: true,
			expected:        4,
		},
		{
			name: "weekend only request with weekends excluded",
			from: "2026-01-10", to: "2026-01-11",
			expected: 0,
		},
		{
			name: "holiday excluded by default",
			from: "2025-12-31", to: "2026-01-02",
			expected: 2,
		},
		{
			name: "holiday counted when included",
			from: "2025-12-31", to: "2026-01-02",
			includeHolidays: true,
			expected:        3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CountLeaveDays(context.Background(), mustDate(t, tt.from), mustDate(t, tt.to), tt.isHalfDay, tt.includeWeekends, tt.includeHolidays)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCountLeaveDaysInvalidRange(t *testing.T) {
	svc := NewService(newFakeHolidayRepo())
	_, err := svc.CountLeaveDays(context.Background(), mustDate(t, "2026-01-10"), mustDate(t, "2026-01-05"), false, false, false)
	assert.Error(t, err)
}
