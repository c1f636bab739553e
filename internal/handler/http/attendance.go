package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	StopBreak(w http.ResponseWriter, r *http.Request)
	GetMyDay(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
	GetEmployeeDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type checkBody struct {
	Timestamp string   `json:"timestamp,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Reason    *string  `json:"reason,omitempty"`
}

// parseCheck builds the service request from the body. A missing
// timestamp means "now".
func parseCheck(r *http.Request) (attendance.CheckRequest, bool) {
	var body checkBody
	if r.Body != nil {
		// An empty body is a bare "check in now".
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	ts := time.Now()
	if body.Timestamp != "" {
		parsed, ok := validator.IsValidTimestamp(body.Timestamp)
		if !ok {
			return attendance.CheckRequest{}, false
		}
		ts = parsed
	}

	return attendance.CheckRequest{
		EmployeeID: middleware.EmployeeID(r),
		Timestamp:  ts,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
		Reason:     body.Reason,
	}, true
}

func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCheck(r)
	if !ok {
		response.BadRequest(w, "timestamp must be RFC3339", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	day, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Checked in", day)
}

func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCheck(r)
	if !ok {
		response.BadRequest(w, "timestamp must be RFC3339", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	day, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out", day)
}

func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.mutateBreak(w, r, h.attendanceService.StartBreak, "Break started")
}

func (h *attendanceHandlerImpl) StopBreak(w http.ResponseWriter, r *http.Request) {
	h.mutateBreak(w, r, h.attendanceService.StopBreak, "Break ended")
}

func (h *attendanceHandlerImpl) mutateBreak(
	w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, req attendance.BreakRequest) (attendance.DayResponse, error),
	message string,
) {
	check, ok := parseCheck(r)
	if !ok {
		response.BadRequest(w, "timestamp must be RFC3339", nil)
		return
	}
	req := attendance.BreakRequest{EmployeeID: check.EmployeeID, Timestamp: check.Timestamp}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	day, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, day)
}

func (h *attendanceHandlerImpl) GetMyDay(w http.ResponseWriter, r *http.Request) {
	h.getDay(w, r, middleware.EmployeeID(r))
}

func (h *attendanceHandlerImpl) GetEmployeeDay(w http.ResponseWriter, r *http.Request) {
	h.getDay(w, r, chi.URLParam(r, "employeeID"))
}

func (h *attendanceHandlerImpl) getDay(w http.ResponseWriter, r *http.Request, employeeID string) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	day, err := h.attendanceService.GetDay(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, day)
}

func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	from, okFrom := validator.IsValidDate(r.URL.Query().Get("from"))
	to, okTo := validator.IsValidDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to must be YYYY-MM-DD", nil)
		return
	}

	days, err := h.attendanceService.ListRange(r.Context(), middleware.EmployeeID(r), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, days)
}
