package leave

import (
	"context"
	"sync"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

// passthroughTx runs fn directly; the fakes have no transactions.
func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// serialTx emulates fully serialized transactions: one global lock,
// reentrant within a transaction so nested runTx calls don't deadlock.
type serialTx struct {
	mu sync.Mutex
}

type serialTxKey struct{}

func (s *serialTx) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(serialTxKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, serialTxKey{}, true))
}

type fakeLeaveTypeRepo struct {
	types map[string]leave.LeaveType
}

func (r *fakeLeaveTypeRepo) Create(_ context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.types[lt.ID] = lt
	return lt, nil
}

func (r *fakeLeaveTypeRepo) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *fakeLeaveTypeRepo) GetByCode(_ context.Context, code string) (leave.LeaveType, error) {
	for _, lt := range r.types {
		if lt.Code == code {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeLeaveTypeRepo) ListActive(_ context.Context) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, lt := range r.types {
		if lt.IsActive {
			out = append(out, lt)
		}
	}
	return out, nil
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]leave.LeaveBalance
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return employeeID + "|" + leaveTypeID + "|" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

func (r *fakeBalanceRepo) Create(_ context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)] = b
	return b, nil
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
}

func (r *fakeBalanceRepo) UpdateAmounts(_ context.Context, b leave.LeaveBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)
	if _, ok := r.balances[key]; !ok {
		return leave.ErrBalanceNotFound
	}
	r.balances[key] = b
	return nil
}

func (r *fakeBalanceRepo) ListByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) ListExpiredCarryForward(_ context.Context, asOf time.Time) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.CarriedForward > 0 && b.CarryForwardExpiry != nil && b.CarryForwardExpiry.Before(asOf) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) get(employeeID, leaveTypeID string, year int) leave.LeaveBalance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[balanceKey(employeeID, leaveTypeID, year)]
}

func (r *fakeBalanceRepo) put(b leave.LeaveBalance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)] = b
}

type fakeCompOffRepo struct {
	credits map[string]leave.CompOffCredit
}

func (r *fakeCompOffRepo) Create(_ context.Context, c leave.CompOffCredit) (leave.CompOffCredit, error) {
	r.credits[c.ID] = c
	return c, nil
}

func (r *fakeCompOffRepo) ListAvailable(_ context.Context, employeeID string, asOf time.Time) ([]leave.CompOffCredit, error) {
	var out []leave.CompOffCredit
	for _, c := range r.credits {
		if c.EmployeeID != employeeID || c.Used {
			continue
		}
		if c.ExpiresAt != nil && c.ExpiresAt.Before(asOf) {
			continue
		}
		out = append(out, c)
	}
	// Oldest earned first.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].EarnedDate.Before(out[i].EarnedDate) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeCompOffRepo) MarkUsed(_ context.Context, creditID, requestID string) error {
	c, ok := r.credits[creditID]
	if !ok {
		return leave.ErrCompOffNotFound
	}
	c.Used = true
	c.UsedByRequestID = &requestID
	r.credits[creditID] = c
	return nil
}

func (r *fakeCompOffRepo) ReleaseByRequest(_ context.Context, requestID string) error {
	for id, c := range r.credits {
		if c.UsedByRequestID != nil && *c.UsedByRequestID == requestID {
			c.Used = false
			c.UsedByRequestID = nil
			r.credits[id] = c
		}
	}
	return nil
}

type fakeRequestRepo struct {
	requests map[string]leave.LeaveRequest
}

func (r *fakeRequestRepo) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) Update(_ context.Context, req leave.LeaveRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) HasOverlap(_ context.Context, employeeID string, from, to time.Time, excludeID string) (bool, error) {
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.ID == excludeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if !req.ToDate.Before(from) && !req.FromDate.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.FromDate.Year() == year {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListApprovedInRange(_ context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.Status != leave.StatusApproved {
			continue
		}
		if !req.ToDate.Before(from) && !req.FromDate.After(to) {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) UpdateState(_ context.Context, emp employee.Employee) error {
	r.employees[emp.ID] = emp
	return nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.State.IsActive() {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListByDepartment(_ context.Context, departmentID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.DepartmentID == departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct {
	holidays map[string]shift.Holiday
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

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(_ context.Context, _ notification.Event) {}
func (noopDispatcher) Stop()                                            {}
