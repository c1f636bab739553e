package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type ScheduleHandler interface {
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService shift.ScheduleService
}

func NewScheduleHandler(scheduleService shift.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

func (h *scheduleHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created", result)
}

func (h *scheduleHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *scheduleHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday created", result)
}

func (h *scheduleHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, ok := validator.IsValidDate(raw + "-01-01")
		if !ok {
			response.BadRequest(w, "year must be YYYY", nil)
			return
		}
		year = parsed.Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	result, err := h.scheduleService.ListHolidays(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
