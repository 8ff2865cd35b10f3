package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Lelo88/isuumo-api-golang/internal/chairs"
	"github.com/Lelo88/isuumo-api-golang/internal/config"
	"github.com/Lelo88/isuumo-api-golang/internal/db"
	"github.com/Lelo88/isuumo-api-golang/internal/docs"
	"github.com/Lelo88/isuumo-api-golang/internal/estates"
	"github.com/Lelo88/isuumo-api-golang/internal/health"
	"github.com/Lelo88/isuumo-api-golang/internal/httpx"
	"github.com/Lelo88/isuumo-api-golang/internal/logger"
	"github.com/Lelo88/isuumo-api-golang/internal/metrics"
	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// appPool es lo que la app usa de *pgxpool.Pool.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// appDeps permite reemplazar las dependencias externas en tests.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(level string, development bool) (*zap.Logger, error)
	loadFixture    func(dir string) (search.Fixture, error)
	newPool        func(ctx context.Context, cfg config.Config) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
}

var (
	loadConfigFn  = config.Load
	newLoggerFn   = logger.New
	loadFixtureFn = search.LoadFixture
	newPoolFn     = func(ctx context.Context, cfg config.Config) (appPool, error) {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	listenAndServeFn = http.ListenAndServe
	fatalf           = log.Fatal
)

func main() {
	err := run(context.Background(), appDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		loadFixture:    loadFixtureFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
	})
	if err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	appLogger, err := deps.newLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	// Los rangos se cargan una vez y se inyectan como valor inmutable.
	fixture, err := deps.loadFixture(cfg.FixtureDir)
	if err != nil {
		return fmt.Errorf("load fixture: %w", err)
	}

	pool, err := deps.newPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	appMetrics := metrics.New()
	if statter, ok := pool.(interface{ Stat() *pgxpool.Stat }); ok {
		appMetrics.RegisterPool(func() metrics.PoolStats { return statter.Stat() })
	}

	router := buildRouter(routerDeps{
		pool:    pool,
		logger:  appLogger,
		fixture: fixture,
		config:  cfg,
		metrics: appMetrics,
	})

	addr := ":" + cfg.Port
	appLogger.Info("listening", zap.String("addr", addr))
	return deps.listenAndServe(addr, router)
}

type routerDeps struct {
	pool    appPool
	logger  *zap.Logger
	fixture search.Fixture
	config  config.Config
	metrics *metrics.Metrics
}

// buildRouter arma la tabla de rutas completa de la API.
func buildRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(deps.logger))
	r.Use(deps.metrics.Middleware)
	r.Use(middleware.Recoverer)
	if deps.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.config.RequestTimeout))
	}

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(deps.pool)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())
	docs.RegisterRoutes(r)

	initializer := db.NewInitializer(deps.pool, deps.config.InitSQLDir)
	r.Post("/initialize", db.InitializeHandler(initializer, deps.logger))

	conditions := search.NewConditions(deps.fixture)

	chairService := chairs.NewService(chairs.NewRepository(deps.pool), conditions)
	chairs.RegisterRoutes(r, chairs.NewHandler(chairService, deps.logger))

	estateService := estates.NewService(estates.NewRepository(deps.pool), conditions)
	estates.RegisterRoutes(r, estates.NewHandler(estateService, deps.logger))

	return r
}
