package attendance

import (
	"fmt"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type CheckRequest struct {
	EmployeeID string
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
	// Reason is required by the caller when the action is late or an
	// early leave; the engine records it without enforcing.
	Reason *string
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp is required"})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "location", Message: "latitude and longitude must be provided together"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakRequest struct {
	EmployeeID string
	Timestamp  time.Time
}

func (r *BreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	State             DayState        `json:"state"`
	Status            string          `json:"status"`
	Events            []EventResponse `json:"events"`
	Breaks            []BreakResponse `json:"breaks"`
	WorkingHours      string          `json:"working_hours"`
	NetMinutes        int             `json:"net_minutes"`
	BreakMinutes      int             `json:"break_minutes"`
	LateMinutes       int             `json:"late_minutes"`
	EarlyLeaveMinutes int             `json:"early_leave_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
}

type EventResponse struct {
	Type      CheckType `json:"type"`
	Timestamp string    `json:"timestamp"`
}

type BreakResponse struct {
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
}

// FormatWorkingHours renders net minutes the way dashboards show them.
func FormatWorkingHours(netMinutes int) string {
	return fmt.Sprintf("%dh %dm", netMinutes/60, netMinutes%60)
}

func ToDayResponse(day AttendanceDay) DayResponse {
	events := make([]EventResponse, 0, len(day.Events))
	for _, ev := range day.Events {
		events = append(events, EventResponse{
			Type:      ev.Type,
			Timestamp: ev.Timestamp.Format(time.RFC3339),
		})
	}
	breaks := make([]BreakResponse, 0, len(day.Breaks))
	for _, b := range day.Breaks {
		br := BreakResponse{StartedAt: b.StartedAt.Format(time.RFC3339)}
		if b.EndedAt != nil {
			ended := b.EndedAt.Format(time.RFC3339)
			br.EndedAt = &ended
		}
		breaks = append(breaks, br)
	}
	return DayResponse{
		ID:                day.ID,
		EmployeeID:        day.EmployeeID,
		Date:              day.Date.Format("2006-01-02"),
		State:             day.State,
		Status:            day.Status,
		Events:            events,
		Breaks:            breaks,
		WorkingHours:      FormatWorkingHours(day.NetMinutes),
		NetMinutes:        day.NetMinutes,
		BreakMinutes:      day.BreakMinutes,
		LateMinutes:       day.LateMinutes,
		EarlyLeaveMinutes: day.EarlyLeaveMinutes,
		OvertimeMinutes:   day.OvertimeMinutes,
	}
}
