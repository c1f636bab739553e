package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)

	Transition(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService  employee.EmployeeService
	lifecycleService lifecycle.LifecycleService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, lifecycleService lifecycle.LifecycleService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService:  employeeService,
		lifecycleService: lifecycleService,
	}
}

func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created", result)
}

func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *employeeHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if validator.IsEmpty(body.Name) {
		response.BadRequest(w, "name is required", nil)
		return
	}

	dept, err := h.employeeService.CreateDepartment(r.Context(), body.Name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Department created", dept)
}

func (h *employeeHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.employeeService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, depts)
}

type transitionBody struct {
	Action string `json:"action"`

	// Per-action fields; validated by the action that needs them.
	Date              string `json:"date,omitempty"`
	Reason            string `json:"reason,omitempty"`
	EligibleForRehire bool   `json:"eligible_for_rehire,omitempty"`
}

// Transition dispatches one lifecycle action against an employee. Every
// action is recorded in the employee's audit history.
func (h *employeeHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	var body transitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	actorID := middleware.EmployeeID(r)

	date, hasDate := validator.IsValidDate(body.Date)

	var (
		result employee.Employee
		err    error
	)
	switch body.Action {
	case "start_probation":
		if !hasDate {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		result, err = h.lifecycleService.StartProbation(r.Context(), employeeID, date, actorID)
	case "confirm":
		result, err = h.lifecycleService.Confirm(r.Context(), employeeID, actorID)
	case "extend_probation":
		if !hasDate {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		result, err = h.lifecycleService.ExtendProbation(r.Context(), employeeID, date, actorID)
	case "fail_probation":
		result, err = h.lifecycleService.FailProbation(r.Context(), employeeID, actorID, body.Reason)
	case "suspend":
		var until *time.Time
		if hasDate {
			until = &date
		}
		result, err = h.lifecycleService.Suspend(r.Context(), employeeID, until, actorID, body.Reason)
	case "reactivate":
		result, err = h.lifecycleService.Reactivate(r.Context(), employeeID, actorID)
	case "initiate_termination":
		if !hasDate {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		result, err = h.lifecycleService.InitiateTermination(r.Context(), employeeID, date, actorID, body.Reason)
	case "complete_termination":
		result, err = h.lifecycleService.CompleteTermination(r.Context(), employeeID, actorID, body.EligibleForRehire)
	case "relieve":
		if !hasDate {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		result, err = h.lifecycleService.Relieve(r.Context(), employeeID, date, body.Reason, body.EligibleForRehire, actorID)
	case "mark_inactive":
		result, err = h.lifecycleService.MarkInactive(r.Context(), employeeID, actorID, body.Reason)
	default:
		response.BadRequest(w, "unknown lifecycle action", nil)
		return
	}

	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Lifecycle transition applied", employee.ToEmployeeResponse(result))
}

func (h *employeeHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.lifecycleService.History(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, events)
}
