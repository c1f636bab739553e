package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	MyBalances(w http.ResponseWriter, r *http.Request)
	EmployeeBalances(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	GrantCompOff(w http.ResponseWriter, r *http.Request)

	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	requestService leave.LeaveRequestService
	balanceService leave.LeaveBalanceService
	typeService    leave.LeaveTypeService
}

func NewLeaveHandler(
	requestService leave.LeaveRequestService,
	balanceService leave.LeaveBalanceService,
	typeService leave.LeaveTypeService,
) LeaveHandler {
	return &leaveHandlerImpl{
		requestService: requestService,
		balanceService: balanceService,
		typeService:    typeService,
	}
}

type submitLeaveBody struct {
	LeaveTypeID string  `json:"leave_type_id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	IsHalfDay   bool    `json:"is_half_day"`
	HalfType    *string `json:"half_type,omitempty"`
	Reason      string  `json:"reason"`
	ProofURL    *string `json:"proof_url,omitempty"`
	UseCompOff  bool    `json:"use_comp_off"`
}

func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitLeaveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := leave.CreateLeaveRequestRequest{
		EmployeeID:  middleware.EmployeeID(r),
		LeaveTypeID: body.LeaveTypeID,
		FromDate:    body.FromDate,
		ToDate:      body.ToDate,
		IsHalfDay:   body.IsHalfDay,
		HalfType:    body.HalfType,
		Reason:      body.Reason,
		ProofURL:    body.ProofURL,
		UseCompOff:  body.UseCompOff,
	}

	result, err := h.requestService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", result)
}

func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	year := queryYear(r)

	result, err := h.requestService.ListByEmployee(r.Context(), middleware.EmployeeID(r), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.Approve(r.Context(), chi.URLParam(r, "requestID"), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request approved", result)
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if validator.IsEmpty(body.Reason) {
		response.BadRequest(w, "reason is required", nil)
		return
	}

	result, err := h.requestService.Reject(r.Context(), chi.URLParam(r, "requestID"), middleware.EmployeeID(r), body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", result)
}

func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	byAdmin := middleware.Role(r) == string(employee.RoleAdmin)

	result, err := h.requestService.Cancel(r.Context(), chi.URLParam(r, "requestID"), middleware.EmployeeID(r), byAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

func (h *leaveHandlerImpl) MyBalances(w http.ResponseWriter, r *http.Request) {
	h.listBalances(w, r, middleware.EmployeeID(r))
}

func (h *leaveHandlerImpl) EmployeeBalances(w http.ResponseWriter, r *http.Request) {
	h.listBalances(w, r, chi.URLParam(r, "employeeID"))
}

func (h *leaveHandlerImpl) listBalances(w http.ResponseWriter, r *http.Request, employeeID string) {
	result, err := h.balanceService.ListBalances(r.Context(), employeeID, queryYear(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *leaveHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LeaveTypeID string  `json:"leave_type_id"`
		Year        int     `json:"year"`
		Days        float64 `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if body.Year == 0 {
		body.Year = time.Now().Year()
	}

	result, err := h.balanceService.Adjust(r.Context(), chi.URLParam(r, "employeeID"), body.LeaveTypeID, body.Year, body.Days)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Balance adjusted", result)
}

func (h *leaveHandlerImpl) GrantCompOff(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EarnedDate string  `json:"earned_date"`
		Days       float64 `json:"days"`
		ExpiresAt  *string `json:"expires_at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	earned, ok := validator.IsValidDate(body.EarnedDate)
	if !ok {
		response.BadRequest(w, "earned_date must be YYYY-MM-DD", nil)
		return
	}
	var expiresAt *time.Time
	if body.ExpiresAt != nil {
		parsed, ok := validator.IsValidDate(*body.ExpiresAt)
		if !ok {
			response.BadRequest(w, "expires_at must be YYYY-MM-DD", nil)
			return
		}
		expiresAt = &parsed
	}

	credit, err := h.balanceService.GrantCompOff(r.Context(), leave.GrantCompOffRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		EarnedDate: earned,
		Days:       body.Days,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Comp-off credit granted", credit)
}

func (h *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.typeService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave type created", result)
}

func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.typeService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// queryYear reads the year query param, defaulting to the current year.
func queryYear(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			return year
		}
	}
	return time.Now().Year()
}
