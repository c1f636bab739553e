package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/config"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	appHTTP "github.com/clockwise-hr/clockwise-backend-go/internal/handler/http"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/cron"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hr/clockwise-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockwise-hr/clockwise-backend-go/internal/service/attendance"
	authService "github.com/clockwise-hr/clockwise-backend-go/internal/service/auth"
	"github.com/clockwise-hr/clockwise-backend-go/internal/service/calendar"
	employeeService "github.com/clockwise-hr/clockwise-backend-go/internal/service/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/service/leave"
	lifecycleService "github.com/clockwise-hr/clockwise-backend-go/internal/service/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/service/notification"
	reportService "github.com/clockwise-hr/clockwise-backend-go/internal/service/report"
	scheduleService "github.com/clockwise-hr/clockwise-backend-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.Default()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	compOffRepo := postgresql.NewCompOffRepository(db)
	lifecycleEventRepo := postgresql.NewLifecycleEventRepository(db)

	runTx := postgresql.RunInTransaction(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	dispatcher := notification.NewSlogDispatcher(logger, 0)
	defer dispatcher.Stop()

	calendarSvc := calendar.NewService(holidayRepo)
	entitlementCalc := leave.NewEntitlementCalculator()
	balanceSvc := leave.NewBalanceService(runTx, leaveTypeRepo, leaveBalanceRepo, compOffRepo, employeeRepo, entitlementCalc)
	requestSvc := leave.NewRequestService(runTx, leaveTypeRepo, leaveRequestRepo, employeeRepo, balanceSvc, calendarSvc, dispatcher)
	typeSvc := leave.NewTypeService(leaveTypeRepo)
	attendanceSvc := attendanceService.NewService(
		runTx,
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		dispatcher,
		attendance.CheckPolicy{AllowMultipleCheckIn: cfg.Policy.AllowMultipleCheckIn},
		logger,
	)
	lifecycleSvc := lifecycleService.NewService(runTx, employeeRepo, lifecycleEventRepo, dispatcher)
	employeeSvc := employeeService.NewService(employeeRepo, departmentRepo, shiftRepo)
	scheduleSvc := scheduleService.NewScheduleService(shiftRepo, holidayRepo)
	reportSvc := reportService.NewService(
		attendanceRepo,
		leaveRequestRepo,
		leaveTypeRepo,
		holidayRepo,
		shiftRepo,
		employeeRepo,
		departmentRepo,
	)
	authSvc := authService.NewService(employeeRepo, jwtService)

	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob("auto-close-stale-sessions", cfg.Cron.StaleSessionInterval, func(ctx context.Context) error {
		closed, err := attendanceSvc.AutoCloseStale(ctx, time.Now().Add(-cfg.Cron.StaleSessionMaxAge))
		if closed > 0 {
			logger.Info("Auto-closed stale attendance sessions", "count", closed)
		}
		return err
	})
	scheduler.AddJob("expire-carry-forward", cfg.Cron.CarryForwardInterval, func(ctx context.Context) error {
		expired, err := balanceSvc.ExpireCarryForward(ctx, time.Now())
		if expired > 0 {
			logger.Info("Expired carried-forward leave balances", "count", expired)
		}
		return err
	})
	// Roll the previous year forward while the new year is young;
	// ApplyCarryForward is idempotent for already-rolled balances.
	januaryOnly := func(t time.Time) bool { return t.Month() == time.January }
	scheduler.AddGatedJob("carry-forward-sweep", cfg.Cron.CarryForwardInterval, januaryOnly, func(ctx context.Context) error {
		fromYear := time.Now().Year() - 1
		applied, err := balanceSvc.CarryForwardSweep(ctx, fromYear)
		if applied > 0 {
			logger.Info("Applied carry-forward", "balances", applied, "from_year", fromYear)
		}
		return err
	})
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(requestSvc, balanceSvc, typeSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc, lifecycleSvc)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		employeeHandler,
		scheduleHandler,
		reportHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.App.Port)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
		}
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}
