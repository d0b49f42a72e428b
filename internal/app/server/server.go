package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"phpayroll/internal/auth"
	"phpayroll/internal/domain/payroll"
	"phpayroll/internal/platform/config"
	"phpayroll/internal/platform/db"
	"phpayroll/internal/platform/metrics"
	"phpayroll/internal/platform/tables"
	payrollhandler "phpayroll/internal/transport/http/handlers/payroll"
	"phpayroll/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Service *payroll.Service
	Router  http.Handler
	Logger  *zap.Logger
}

// New wires the service. The database is optional: without DATABASE_URL the
// calculation and preview routes work and the archive routes answer 503.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	constants := payroll.DefaultConstants()
	if cfg.TablesPath != "" {
		loaded, err := tables.Load(cfg.TablesPath)
		if err != nil {
			return nil, err
		}
		constants = loaded
		logger.Info("payroll tables loaded", zap.String("path", cfg.TablesPath))
	}

	app := &App{Config: cfg, Logger: logger}

	var store payroll.StoreAPI
	if cfg.ArchiveEnabled() {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		app.DB = pool
		store = payroll.NewStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set; run archive disabled")
	}

	if cfg.MetricsEnabled {
		metrics.Init()
	}

	app.Service = payroll.NewService(store, constants, cfg.DefaultCurrency, logger)
	app.Router = app.routes()
	return app, nil
}

func (a *App) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Logger))
	router.Use(middleware.Recoverer)
	if a.Config.MetricsEnabled {
		router.Use(middleware.Metrics)
	}
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	router.Use(middleware.Auth(a.Config.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Config.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		handler := payrollhandler.NewHandler(a.Service, auth.DefaultRolePermissions())
		handler.PreviewAuth = a.Config.PreviewAuth
		handler.RegisterRoutes(r)
	})
	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to ShutdownTimeout.
func Run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("payroll server listening",
			zap.String("addr", cfg.Addr),
			zap.Bool("archive", app.Service.ArchiveEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
