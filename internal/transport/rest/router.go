package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/calong-tick/internal/auth"
	"github.com/frahmantamala/calong-tick/internal/employee"
	"github.com/frahmantamala/calong-tick/internal/report"
	"github.com/frahmantamala/calong-tick/internal/timeentry"
	"github.com/frahmantamala/calong-tick/internal/transport"
	"github.com/frahmantamala/calong-tick/internal/transport/middleware"
	"github.com/frahmantamala/calong-tick/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth      *auth.Handler
	Employee  *employee.Handler
	TimeEntry *timeentry.Handler
	Report    *report.Handler
}

type Options struct {
	AllowedOrigins []string
	// PinLimiter throttles every endpoint that accepts an employee PIN.
	PinLimiter *middleware.IPRateLimiter
	DB         Pinger
	// Docs is optional; without it no OpenAPI or Swagger routes are mounted.
	Docs *swagger.Document
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(transport.NewBaseHandler(logger), opts.DB)

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.Docs != nil {
		router.Method(http.MethodGet, swagger.DocumentPath, opts.Docs)
		router.Handle("/swagger/*", swagger.Handler())
	}

	pinGuard := func(next http.Handler) http.Handler { return next }
	if opts.PinLimiter != nil {
		pinGuard = middleware.RateLimitByIP(opts.PinLimiter)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/admin", func(ar chi.Router) {
			ar.Get("/exists", h.Auth.Exists)
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/signin", h.Auth.Signin)
			ar.With(h.Auth.AuthMiddleware).Get("/profile", h.Auth.Profile)
		})

		r.Route("/employees", func(er chi.Router) {
			er.With(pinGuard).Post("/verify-pin", h.Employee.VerifyPIN)

			er.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/", h.Employee.Create)
				pr.Get("/", h.Employee.List)
				pr.Get("/{id}", h.Employee.Get)
				pr.Put("/{id}", h.Employee.Update)
				pr.Delete("/{id}", h.Employee.Delete)
			})
		})

		r.Route("/time-entries", func(tr chi.Router) {
			// Employee facing, identified by PIN
			tr.Group(func(pr chi.Router) {
				pr.Use(pinGuard)
				pr.Post("/clock-in", h.TimeEntry.ClockIn)
				pr.Post("/clock-out", h.TimeEntry.ClockOut)
				pr.Post("/status", h.TimeEntry.Status)
				pr.Post("/my-entries", h.TimeEntry.MyEntries)
				pr.Post("/employee-entry", h.TimeEntry.CreateEmployeeEntry)
				pr.Put("/employee-entry/{id}", h.TimeEntry.UpdateEmployeeEntry)
				pr.Delete("/employee-entry/{id}", h.TimeEntry.DeleteEmployeeEntry)
			})

			// Admin
			tr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.AuthMiddleware)
				ar.Get("/", h.TimeEntry.List)
				ar.Get("/reports/summary", h.Report.Summary)
				ar.Post("/manual", h.TimeEntry.CreateManual)
				ar.Put("/{id}", h.TimeEntry.Update)
				ar.Delete("/{id}", h.TimeEntry.Delete)
			})
		})
	})
}
