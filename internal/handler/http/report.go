package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/report"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	MyMonthly(w http.ResponseWriter, r *http.Request)
	EmployeeMonthly(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Department(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) MyMonthly(w http.ResponseWriter, r *http.Request) {
	h.monthly(w, r, middleware.EmployeeID(r))
}

func (h *reportHandlerImpl) EmployeeMonthly(w http.ResponseWriter, r *http.Request) {
	h.monthly(w, r, chi.URLParam(r, "employeeID"))
}

func (h *reportHandlerImpl) monthly(w http.ResponseWriter, r *http.Request, employeeID string) {
	month, year := queryPeriod(r)

	result, err := h.reportService.EmployeeMonthly(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	result, err := h.reportService.Daily(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) Department(w http.ResponseWriter, r *http.Request) {
	month, year := queryPeriod(r)

	result, err := h.reportService.Department(r.Context(), chi.URLParam(r, "departmentID"), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// queryPeriod reads month/year query params, defaulting to the current
// period. Out-of-range values are rejected by the service.
func queryPeriod(r *http.Request) (int, int) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if raw := r.URL.Query().Get("month"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil {
			month = m
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			year = y
		}
	}
	return month, year
}
