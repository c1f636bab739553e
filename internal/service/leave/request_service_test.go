package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
	"github.com/clockwise-hr/clockwise-backend-go/internal/service/calendar"
)

type requestFixture struct {
	svc         *RequestService
	balances    *BalanceService
	balanceRepo *fakeBalanceRepo
	requestRepo *fakeRequestRepo
	typeRepo    *fakeLeaveTypeRepo
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	typeRepo := &fakeLeaveTypeRepo{types: map[string]leave.LeaveType{"lt-annual": annualType()}}
	balanceRepo := &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
	compOffRepo := &fakeCompOffRepo{credits: make(map[string]leave.CompOffCredit)}
	requestRepo := &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", State: employee.StateConfirmed, HireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
		"emp-2": {ID: "emp-2", FullName: "Budi Santoso", State: employee.StateSuspended},
	}}
	holidayRepo := &fakeHolidayRepo{holidays: make(map[string]shift.Holiday)}

	now := func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	balances := NewBalanceService(passthroughTx, typeRepo, balanceRepo, compOffRepo, empRepo, NewEntitlementCalculator())
	balances.now = now

	svc := NewRequestService(passthroughTx, typeRepo, requestRepo, empRepo, balances, calendar.NewService(holidayRepo), noopDispatcher{})
	svc.now = now

	return &requestFixture{svc: svc, balances: balances, balanceRepo: balanceRepo, requestRepo: requestRepo, typeRepo: typeRepo}
}

func submitReq() leave.CreateLeaveRequestRequest {
	return leave.CreateLeaveRequestRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-annual",
		FromDate:    "2026-07-06", // Monday
		ToDate:      "2026-07-08",
		Reason:      "family trip",
	}
}

func TestSubmitReservesDaysImmediately(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, float64(3), resp.TotalDays)
	assert.False(t, resp.IsBackdate)

	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(3), balance.Used)
}

func TestSubmitBackdateFlag(t *testing.T) {
	f := newRequestFixture(t)

	req := submitReq()
	req.FromDate = "2026-06-01"
	req.ToDate = "2026-06-02"

	resp, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsBackdate)
}

func TestSubmitOverlapRejected(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	req := submitReq()
	req.FromDate = "2026-07-08"
	req.ToDate = "2026-07-10"
	_, err = f.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, leave.ErrOverlapConflict)
}

func TestSubmitWeekendOnlyRejected(t *testing.T) {
	f := newRequestFixture(t)

	req := submitReq()
	req.FromDate = "2026-07-11" // Saturday
	req.ToDate = "2026-07-12"   // Sunday
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrZeroDayRequest)
}

func TestSubmitProofRequired(t *testing.T) {
	f := newRequestFixture(t)

	lt := annualType()
	lt.ID = "lt-sick"
	lt.RequiresProof = true
	f.typeRepo.types["lt-sick"] = lt

	req := submitReq()
	req.LeaveTypeID = "lt-sick"
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrProofRequired)
}

func TestSubmitInactiveEmployee(t *testing.T) {
	f := newRequestFixture(t)

	req := submitReq()
	req.EmployeeID = "emp-2"
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotActive)
}

func TestSubmitInsufficientBalanceLeavesNoTrace(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	req := submitReq()
	req.FromDate = "2026-07-01"
	req.ToDate = "2026-07-31" // 23 working days against 12 entitled
	_, err := f.svc.Submit(ctx, req)

	var insufficient *leave.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)

	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(0), balance.Used)
}

func TestApproveOnlyPending(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, resp.ID, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), approved.Status)

	_, err = f.svc.Approve(ctx, resp.ID, "mgr-1")
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	// Approval does not move the balance again.
	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(3), balance.Used)
}

func TestRejectReleasesReservation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, resp.ID, "mgr-1", "short staffed")
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusRejected), rejected.Status)

	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(0), balance.Used)
}

func TestCancelApprovedBeforeStart(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, resp.ID, "mgr-1")
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, resp.ID, "emp-1", false)
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusCancelled), cancelled.Status)

	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(0), balance.Used)
}

func TestCancelApprovedAfterStartRejected(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	req := submitReq()
	req.FromDate = "2026-06-01"
	req.ToDate = "2026-06-02"
	resp, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, resp.ID, "mgr-1")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, resp.ID, "emp-1", false)
	assert.ErrorIs(t, err, leave.ErrCancelAfterStart)
}

func TestCancelByAdminStatus(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, resp.ID, "adm-1", true)
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusCancelledByAdmin), cancelled.Status)
}

func TestSubmitHalfDay(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	half := string(leave.HalfDayMorning)
	req := submitReq()
	req.FromDate = "2026-07-06"
	req.ToDate = "2026-07-06"
	req.IsHalfDay = true
	req.HalfType = &half

	resp, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.TotalDays)

	balance, err := f.balances.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.5, balance.Used)
}

func TestSubmitInvertedRange(t *testing.T) {
	f := newRequestFixture(t)

	req := submitReq()
	req.FromDate = "2026-07-08"
	req.ToDate = "2026-07-06"
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestSubmitHalfDayNeedsSingleDate(t *testing.T) {
	f := newRequestFixture(t)

	req := submitReq()
	req.IsHalfDay = true
	ht := string(leave.HalfDayMorning)
	req.HalfType = &ht
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrHalfDayRange)
}

func TestConcurrentOverlappingSubmitsSingleWinner(t *testing.T) {
	typeRepo := &fakeLeaveTypeRepo{types: map[string]leave.LeaveType{"lt-annual": annualType()}}
	balanceRepo := &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
	compOffRepo := &fakeCompOffRepo{credits: make(map[string]leave.CompOffCredit)}
	requestRepo := &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", State: employee.StateConfirmed, HireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
	}}
	holidayRepo := &fakeHolidayRepo{holidays: make(map[string]shift.Holiday)}

	now := func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	tx := &serialTx{}
	balances := NewBalanceService(tx.run, typeRepo, balanceRepo, compOffRepo, empRepo, NewEntitlementCalculator())
	balances.now = now
	svc := NewRequestService(tx.run, typeRepo, requestRepo, empRepo, balances, calendar.NewService(holidayRepo), noopDispatcher{})
	svc.now = now

	const workers = 6
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), submitReq())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, leave.ErrOverlapConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, requestRepo.requests, 1)
}
