package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
)

func annualType() leave.LeaveType {
	return leave.LeaveType{
		ID:     "lt-annual",
		Code:   "ANNUAL",
		Name:   "Annual Leave",
		Accrual: leave.AccrualPolicy{
			Enabled:     true,
			Frequency:   leave.AccrualYearly,
			DaysPerYear: 12,
		},
		CarryForward: leave.CarryForwardPolicy{
			Enabled:      true,
			MaxDays:      5,
			ExpiryMonths: 3,
		},
		IsActive: true,
	}
}

func newBalanceFixture(t *testing.T) (*BalanceService, *fakeBalanceRepo, *fakeCompOffRepo, *fakeLeaveTypeRepo) {
	t.Helper()

	typeRepo := &fakeLeaveTypeRepo{types: map[string]leave.LeaveType{"lt-annual": annualType()}}
	balanceRepo := &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
	compOffRepo := &fakeCompOffRepo{credits: make(map[string]leave.CompOffCredit)}
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", State: employee.StateConfirmed, HireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
	}}

	svc := NewBalanceService(passthroughTx, typeRepo, balanceRepo, compOffRepo, empRepo, NewEntitlementCalculator())
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, balanceRepo, compOffRepo, typeRepo
}

func TestGetBalanceMaterializesFromPolicy(t *testing.T) {
	svc, _, _, _ := newBalanceFixture(t)

	resp, err := svc.GetBalance(context.Background(), "emp-1", "lt-annual", 2026)
	require.NoError(t, err)

	assert.Equal(t, float64(12), resp.Entitled)
	assert.Equal(t, float64(0), resp.Used)
	assert.Equal(t, float64(12), resp.Available)
}

func TestGetBalanceWithoutPolicy(t *testing.T) {
	svc, _, _, typeRepo := newBalanceFixture(t)
	typeRepo.types["lt-bare"] = leave.LeaveType{ID: "lt-bare", Code: "BARE", IsActive: true}

	_, err := svc.GetBalance(context.Background(), "emp-1", "lt-bare", 2026)
	assert.ErrorIs(t, err, leave.ErrNoPolicyDefined)
}

func TestReserveAndReleaseRoundTrip(t *testing.T) {
	svc, _, _, _ := newBalanceFixture(t)
	ctx := context.Background()

	compOff, err := svc.Reserve(ctx, "emp-1", "lt-annual", "req-1", 2026, 3, false)
	require.NoError(t, err)
	assert.Equal(t, float64(0), compOff)

	resp, err := svc.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(3), resp.Used)
	assert.Equal(t, float64(9), resp.Available)

	require.NoError(t, svc.Release(ctx, "emp-1", "lt-annual", "req-1", 2026, 3))

	resp, err = svc.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.Used)
	assert.Equal(t, float64(12), resp.Available)
}

func TestReserveInsufficientReportsShortfall(t *testing.T) {
	svc, _, _, _ := newBalanceFixture(t)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "emp-1", "lt-annual", "req-1", 2026, 10, false)
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, "emp-1", "lt-annual", "req-2", 2026, 5, false)
	var insufficient *leave.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(3), insufficient.Shortfall)

	// The failed reservation must not have moved the balance.
	resp, err := svc.GetBalance(ctx, "emp-1", "lt-annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, float64(10), resp.Used)
}

func TestReserveSpendsCompOffFirst(t *testing.T) {
	svc, balanceRepo, compOffRepo, _ := newBalanceFixture(t)
	ctx := context.Background()

	_, err := svc.GrantCompOff(ctx, leave.GrantCompOffRequest{
		EmployeeID: "emp-1",
		EarnedDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Days:       1,
	})
	require.NoError(t, err)

	compOff, err := svc.Reserve(ctx, "emp-1", "lt-annual", "req-1", 2026, 3, true)
	require.NoError(t, err)
	assert.Equal(t, float64(1), compOff)

	balance := balanceRepo.get("emp-1", "lt-annual", 2026)
	assert.Equal(t, float64(2), balance.Used)

	// Releasing frees the credit again.
	require.NoError(t, svc.Release(ctx, "emp-1", "lt-annual", "req-1", 2026, 2))
	credits, err := compOffRepo.ListAvailable(ctx, "emp-1", svc.now())
	require.NoError(t, err)
	assert.Len(t, credits, 1)
}

func TestApplyCarryForwardCapped(t *testing.T) {
	svc, balanceRepo, _, _ := newBalanceFixture(t)
	ctx := context.Background()

	// 2025 ends with 8 unused days; the policy caps rollover at 5.
	balanceRepo.put(leave.LeaveBalance{
		ID: "bal-2025", EmployeeID: "emp-1", LeaveTypeID: "lt-annual", Year: 2025,
		Entitled: 12, Used: 4,
	})

	resp, err := svc.ApplyCarryForward(ctx, "emp-1", "lt-annual", 2025)
	require.NoError(t, err)

	assert.Equal(t, float64(5), resp.CarriedForward)
	assert.Equal(t, float64(17), resp.Available)
	require.NotNil(t, resp.CarryForwardExpiry)
	assert.Equal(t, "2026-04-01", *resp.CarryForwardExpiry)
}

func TestApplyCarryForwardDisabled(t *testing.T) {
	svc, _, _, typeRepo := newBalanceFixture(t)
	lt := annualType()
	lt.ID = "lt-sick"
	lt.CarryForward = leave.CarryForwardPolicy{}
	typeRepo.types["lt-sick"] = lt

	_, err := svc.ApplyCarryForward(context.Background(), "emp-1", "lt-sick", 2025)
	assert.ErrorIs(t, err, leave.ErrCarryForwardDisabled)
}

func TestExpireCarryForwardDropsUnusedPortion(t *testing.T) {
	svc, balanceRepo, _, _ := newBalanceFixture(t)
	ctx := context.Background()

	expiry := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	balanceRepo.put(leave.LeaveBalance{
		ID: "bal-2026", EmployeeID: "emp-1", LeaveTypeID: "lt-annual", Year: 2026,
		Entitled: 12, CarriedForward: 5, CarryForwardExpiry: &expiry,
		Used: 14, // 12 entitled fully spent plus 2 of the carried days
	})

	touched, err := svc.ExpireCarryForward(ctx, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	balance := balanceRepo.get("emp-1", "lt-annual", 2026)
	// Only the 3 unspent carried days expire.
	assert.Equal(t, float64(2), balance.CarriedForward)
	assert.Equal(t, float64(0), balance.Available())
	assert.Nil(t, balance.CarryForwardExpiry)
}

func TestAdjustAddsAdditionalDays(t *testing.T) {
	svc, _, _, _ := newBalanceFixture(t)

	resp, err := svc.Adjust(context.Background(), "emp-1", "lt-annual", 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(2), resp.Additional)
	assert.Equal(t, float64(14), resp.Available)
}

func TestEntitlementMonthlyProRate(t *testing.T) {
	calc := NewEntitlementCalculator()

	lt := annualType()
	lt.Accrual.Frequency = leave.AccrualMonthly

	tests := []struct {
		name     string
		hireDate time.Time
		year     int
		asOf     time.Time
		expected float64
	}{
		{
			name:     "mid year accrual",
			hireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			year:     2026,
			asOf:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 6,
		},
		{
			name:     "past year is fully accrued",
			hireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			year:     2025,
			asOf:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 12,
		},
		{
			name:     "hire year starts at hire month",
			hireDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			year:     2026,
			asOf:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 4,
		},
		{
			name:     "future year accrues nothing",
			hireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			year:     2027,
			asOf:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Entitlement(lt, tt.hireDate, tt.year, tt.asOf)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}

func TestEntitlementYearlyProRatesHireYear(t *testing.T) {
	calc := NewEntitlementCalculator()

	got, err := calc.Entitlement(annualType(), time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 2026, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 6, got, 0.001) // July through December
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	typeRepo := &fakeLeaveTypeRepo{types: map[string]leave.LeaveType{"lt-annual": annualType()}}
	balanceRepo := &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
	compOffRepo := &fakeCompOffRepo{credits: make(map[string]leave.CompOffCredit)}
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", State: employee.StateConfirmed, HireDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
	}}

	tx := &serialTx{}
	svc := NewBalanceService(tx.run, typeRepo, balanceRepo, compOffRepo, empRepo, NewEntitlementCalculator())
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	// One day available.
	balanceRepo.put(leave.LeaveBalance{
		ID: "bal-2026", EmployeeID: "emp-1", LeaveTypeID: "lt-annual", Year: 2026,
		Entitled: 12, Used: 11,
	})

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), "emp-1", "lt-annual", fmt.Sprintf("req-%d", n), 2026, 1, false)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *leave.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, float64(12), balanceRepo.get("emp-1", "lt-annual", 2026).Used)
}
