package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Overtime     OvertimeHandler
	Permission   PermissionHandler
	Holiday      HolidayHandler
	Policy       PolicyHandler
	Employee     EmployeeHandler
	Notification NotificationHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-policy-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/heartbeat"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, middleware.TokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Get("/stream", h.Notification.Stream)
			})

			r.Get("/holidays", h.Holiday.List)

			// Self-service, the token must name an employee
			r.Group(func(r chi.Router) {
				r.Use(middleware.EmployeeRequired)

				r.Get("/me", h.Employee.GetMe)

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/punch-in", h.Attendance.PunchIn)
					r.Post("/punch-out", h.Attendance.PunchOut)
					r.Get("/", h.Attendance.GetMyAttendance)
					r.Get("/late-logins", h.Attendance.GetMyLateLogins)
					r.Get("/{date}", h.Attendance.GetDay)
				})

				r.Route("/leaves", func(r chi.Router) {
					r.Post("/", h.Leave.Apply)
					r.Get("/", h.Leave.GetMyRequests)
					r.Get("/stats", h.Leave.GetMyStats)
					r.Get("/sandwich", h.Leave.GetMySandwichLeaves)
					r.Get("/{id}", h.Leave.GetRequest)
					r.Get("/{id}/days", h.Leave.GetRequestDays)
				})

				r.Route("/overtime", func(r chi.Router) {
					r.Post("/", h.Overtime.Request)
					r.Get("/", h.Overtime.GetMyOvertime)
				})

				r.Route("/permission-hours", func(r chi.Router) {
					r.Post("/", h.Permission.Create)
					r.Get("/", h.Permission.GetMyRequests)
					r.Put("/{id}", h.Permission.Update)
					r.Delete("/{id}", h.Permission.Delete)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Post("/", h.Employee.Create)
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)
					r.Get("/{employeeID}/leave-stats", h.Leave.GetStats)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/", h.Attendance.List)
					r.Post("/close-open", h.Attendance.CloseOpenPunches)
				})

				r.Route("/leaves", func(r chi.Router) {
					r.Get("/", h.Leave.ListRequests)
					r.Get("/{id}", h.Leave.GetRequest)
					r.Get("/{id}/days", h.Leave.GetRequestDays)
					r.Patch("/{id}/status", h.Leave.UpdateStatus)
				})

				r.Route("/overtime", func(r chi.Router) {
					r.Get("/", h.Overtime.List)
					r.Post("/", h.Overtime.Allocate)
					r.Post("/bulk", h.Overtime.BulkAllocate)
					r.Post("/department", h.Overtime.AllocateToDepartment)
					r.Patch("/{id}", h.Overtime.UpdateAllocation)
					r.Delete("/{id}", h.Overtime.DeleteAllocation)
					r.Post("/{id}/approve", h.Overtime.Approve)
					r.Post("/{id}/reject", h.Overtime.Reject)
				})

				r.Route("/permission-hours", func(r chi.Router) {
					r.Get("/", h.Permission.List)
					r.Post("/{id}/approve", h.Permission.Approve)
					r.Post("/{id}/reject", h.Permission.Reject)
				})

				r.Route("/holidays", func(r chi.Router) {
					r.Post("/", h.Holiday.Create)
					r.Get("/{id}", h.Holiday.Get)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})

				r.Route("/policies", func(r chi.Router) {
					r.Get("/", h.Policy.List)
					r.Put("/", h.Policy.Upsert)
					r.Get("/{department}", h.Policy.Resolve)
					r.Delete("/{department}", h.Policy.Delete)
				})
			})
		})
	})
	return r
}
