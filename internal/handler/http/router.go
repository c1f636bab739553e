package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/clockwise-hr/clockwise-backend-go/internal/config"
	"github.com/clockwise-hr/clockwise-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	employeeHandler EmployeeHandler,
	scheduleHandler ScheduleHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "clockwise"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Post("/break/start", attendanceHandler.StartBreak)
				r.Post("/break/end", attendanceHandler.StopBreak)
				r.Get("/me", attendanceHandler.GetMyDay)
				r.Get("/me/history", attendanceHandler.GetMyHistory)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/{employeeID}", attendanceHandler.GetEmployeeDay)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.Submit)
					r.Get("/", leaveHandler.ListMine)
					r.Get("/{requestID}", leaveHandler.Get)
					r.Post("/{requestID}/cancel", leaveHandler.Cancel)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/{requestID}/approve", leaveHandler.Approve)
						r.Post("/{requestID}/reject", leaveHandler.Reject)
					})
				})

				r.Get("/balances/me", leaveHandler.MyBalances)

				r.Route("/types", func(r chi.Router) {
					r.Get("/", leaveHandler.ListTypes)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/", leaveHandler.CreateType)
					})
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", employeeHandler.List)
					r.Get("/{employeeID}", employeeHandler.Get)
					r.Get("/{employeeID}/history", employeeHandler.History)
					r.Get("/{employeeID}/balances", leaveHandler.EmployeeBalances)
					r.Get("/{employeeID}/reports/monthly", reportHandler.EmployeeMonthly)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", employeeHandler.Create)
					r.Post("/{employeeID}/lifecycle", employeeHandler.Transition)
					r.Post("/{employeeID}/balances/adjust", leaveHandler.Adjust)
					r.Post("/{employeeID}/comp-off", leaveHandler.GrantCompOff)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", employeeHandler.ListDepartments)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", employeeHandler.CreateDepartment)
				})
			})

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/shifts", scheduleHandler.ListShifts)
				r.Get("/holidays", scheduleHandler.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/shifts", scheduleHandler.CreateShift)
					r.Post("/holidays", scheduleHandler.CreateHoliday)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/me/monthly", reportHandler.MyMonthly)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/daily", reportHandler.Daily)
					r.Get("/departments/{departmentID}/monthly", reportHandler.Department)
				})
			})
		})
	})
	return r
}
