package shift

import (
	"strings"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type CreateShiftRequest struct {
	Name      string   `json:"name"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Weekdays  []string `json:"weekdays"`
	IsDefault bool     `json:"is_default"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
	}
	if _, err := time.Parse("15:04", r.EndTime); err != nil {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
	}
	if len(r.Weekdays) == 0 {
		errs = append(errs, validator.ValidationError{Field: "weekdays", Message: "at least one weekday is required"})
	}
	for _, name := range r.Weekdays {
		if _, ok := weekdayNames[strings.ToLower(name)]; !ok {
			errs = append(errs, validator.ValidationError{Field: "weekdays", Message: "unknown weekday " + name})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WeekdayBits folds the named weekdays into the bitset. Call Validate
// first; unknown names are ignored here.
func (r *CreateShiftRequest) WeekdayBits() Weekdays {
	var w Weekdays
	for _, name := range r.Weekdays {
		if d, ok := weekdayNames[strings.ToLower(name)]; ok {
			w = w.With(d)
		}
	}
	return w
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Weekdays  []string `json:"weekdays"`
	IsDefault bool     `json:"is_default"`
}

func ToShiftResponse(s Shift) ShiftResponse {
	var days []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Weekdays.ActiveOn(d) {
			days = append(days, strings.ToLower(d.String()))
		}
	}
	return ShiftResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartTime: s.StartTime.Format("15:04"),
		EndTime:   s.EndTime.Format("15:04"),
		Weekdays:  days,
		IsDefault: s.IsDefault,
	}
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func ToHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID,
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
