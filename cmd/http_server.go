package cmd

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

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/auth"
	authPostgres "github.com/frahmantamala/calong-tick/internal/auth/postgres"
	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/frahmantamala/calong-tick/internal/core/storage"
	"github.com/frahmantamala/calong-tick/internal/employee"
	employeePostgres "github.com/frahmantamala/calong-tick/internal/employee/postgres"
	"github.com/frahmantamala/calong-tick/internal/report"
	reportPostgres "github.com/frahmantamala/calong-tick/internal/report/postgres"
	"github.com/frahmantamala/calong-tick/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/calong-tick/internal/timeentry/postgres"
	"github.com/frahmantamala/calong-tick/internal/transport"
	"github.com/frahmantamala/calong-tick/internal/transport/middleware"
	"github.com/frahmantamala/calong-tick/internal/transport/rest"
	"github.com/frahmantamala/calong-tick/internal/transport/swagger"
	"github.com/frahmantamala/calong-tick/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Location *time.Location
	EventBus *events.EventBus
	Docs     *swagger.Document
	Router   *chi.Mux
	Logger   *slog.Logger
}

type services struct {
	Auth      *auth.Service
	Employee  *employee.Service
	TimeEntry *timeentry.Service
	Report    *report.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps, buildServices(deps))
	checkDocumentedRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "timezone", deps.Location.String())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func buildServices(deps *Dependencies) services {
	lg := deps.Logger

	tokens := auth.NewJWTTokenGenerator(deps.Config.Security.JWTSecret, deps.Config.Security.AccessTokenDuration)
	authSvc := auth.NewService(authPostgres.NewAdminRepository(deps.Gorm), tokens, deps.Config.Security.BCryptCost, lg)

	employeeRepo := employeePostgres.NewEmployeeRepository(deps.Gorm)
	pins := employee.NewPinAllocator(employeeRepo, deps.Config.Clock.PinMaxAttempts)
	employeeSvc := employee.NewService(employeeRepo, pins, deps.EventBus, lg)

	timeSvc := timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(deps.Gorm), employeeSvc, deps.EventBus, deps.Location, lg)
	reportSvc := report.NewService(reportPostgres.NewReportRepository(deps.DB), deps.Location, lg)

	return services{
		Auth:      authSvc,
		Employee:  employeeSvc,
		TimeEntry: timeSvc,
		Report:    reportSvc,
	}
}

func setupRoutes(deps *Dependencies, svc services) {
	base := transport.NewBaseHandler(deps.Logger)
	limits := deps.Config.RateLimit

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:      auth.NewHandler(base, svc.Auth),
		Employee:  employee.NewHandler(base, svc.Employee),
		TimeEntry: timeentry.NewHandler(base, svc.TimeEntry),
		Report:    report.NewHandler(base, svc.Report),
	}, rest.Options{
		AllowedOrigins: deps.Config.Server.Origins(),
		PinLimiter:     middleware.NewIPRateLimiter(rate.Limit(limits.PinRequestsPerSecond), limits.PinBurst),
		DB:             deps.DB,
		Docs:           deps.Docs,
	}, deps.Logger)
}

// checkDocumentedRoutes warns about API routes missing from the OpenAPI
// document so the Swagger UI does not silently drift from the router.
func checkDocumentedRoutes(deps *Dependencies) {
	if deps.Docs == nil {
		return
	}
	missing, err := rest.UndocumentedRoutes(deps.Router, deps.Docs)
	if err != nil {
		deps.Logger.Warn("failed to walk routes", "error", err)
		return
	}
	for _, route := range missing {
		deps.Logger.Warn("route missing from openapi document", "route", route)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment,
		logger.WithLevel(config.Observability.Logging.Level),
		logger.WithFormat(config.Observability.Logging.Format),
	)
	lg := logger.LoggerWrapper()

	loc, err := config.Clock.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	db, gdb, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.NewAuditSubscriber(lg).Register(bus)

	docs, err := swagger.Load(context.Background(), config.Server.OpenAPIPath)
	if err != nil {
		lg.Warn("openapi document unavailable, swagger routes disabled", "path", config.Server.OpenAPIPath, "error", err)
		docs = nil
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Location: loc,
		EventBus: bus,
		Docs:     docs,
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}

// initDB opens the shared pool and the GORM session on top of it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	db, err := storage.Open(cfg.GetDSN(), storage.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, err
	}

	gdb, err := storage.NewGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db, gdb, nil
}
