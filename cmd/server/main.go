package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/auth"
	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/metrics"
	"github.com/biomax/dashboard/internal/repository"
	"github.com/biomax/dashboard/internal/repository/relational"
	"github.com/biomax/dashboard/internal/scheduler"
	"github.com/biomax/dashboard/internal/server/handlers"
	"github.com/biomax/dashboard/internal/server/router"
	extractsvc "github.com/biomax/dashboard/internal/service/extract"
	reportingsvc "github.com/biomax/dashboard/internal/service/reporting"
	"github.com/biomax/dashboard/internal/snapshot"
	"github.com/biomax/dashboard/pkg/clients/webhook"
	"github.com/biomax/dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	settings, err := config.NewSettingsHolder(cfg.SettingsPath, baseLogger.Named("settings"))
	if err != nil {
		baseLogger.Fatal("failed to load dashboard settings", zap.Error(err))
	}

	sources, err := repository.Open(context.Background(), cfg, loc, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open record sources", zap.Error(err))
	}
	defer func() {
		if err := sources.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record sources", zap.Error(err))
		}
	}()

	cacheOpts := []snapshot.Option{
		snapshot.WithTTL(cfg.Cache.SnapshotTTL),
		snapshot.WithLogger(baseLogger),
		snapshot.WithMetrics(m),
	}
	if alerts := webhook.NewClient(cfg.Alerts); alerts != nil {
		cacheOpts = append(cacheOpts, snapshot.WithAlerter(alerts))
		baseLogger.Info("source alerts enabled")
	}
	stockCache := snapshot.New[models.StockMovement]("stock", sources.Stock.FetchMovements, cacheOpts...)
	billingCache := snapshot.New[models.Invoice]("billing", sources.Billing.FetchInvoices, cacheOpts...)

	reportingSvc := reportingsvc.NewService(stockCache, billingCache, settings, loc, m, baseLogger)

	sessions, err := sessionStore(cfg.Auth)
	if err != nil {
		baseLogger.Fatal("failed to init session store", zap.Error(err))
	}
	authn := auth.NewAuthenticator(
		auth.NewGate(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash),
		sessions, cfg.Auth.SessionTTL, baseLogger, m,
	)

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authn, auth.NewCookieManager(cfg.Auth.CookieSecure), baseLogger.Named("handlers.auth")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, loc, baseLogger.Named("handlers.dashboard")),
		Metrics:   metricsHandler,
	}, baseLogger.Named("router"))

	var extractor scheduler.Extractor
	if cfg.Scheduler.ExtractCronSchedule != "" {
		repo := sources.SQL
		if repo == nil {
			db, err := relational.Open(context.Background(), cfg.Database)
			if err != nil {
				baseLogger.Fatal("failed to open extraction database", zap.Error(err))
			}
			repo = relational.NewRepository(db, loc, baseLogger.Named("repo.sql"))
			defer func() { _ = repo.Close() }()
		}
		job := extractsvc.NewService(repo, repo, cfg.Scheduler.BronzePath, m, baseLogger)
		extractor = scheduler.ExtractorFunc(func(ctx context.Context) error {
			if _, err := job.Run(ctx); err != nil {
				return err
			}
			// csv sources read the files just written
			reportingSvc.Invalidate()
			return nil
		})
	}

	sched := scheduler.NewScheduler(scheduler.Config{
		RefreshSchedule: cfg.Scheduler.RefreshCronSchedule,
		ExtractSchedule: cfg.Scheduler.ExtractCronSchedule,
		Location:        loc,
	}, scheduler.RefresherFunc(func(ctx context.Context) error {
		_, err := reportingSvc.Refresh(ctx)
		return err
	}), extractor, baseLogger)
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_, _ = reportingSvc.Refresh(ctx)
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sessionStore(cfg config.AuthConfig) (auth.Store, error) {
	if cfg.Store != config.SessionStoreRedis {
		return auth.NewMemoryStore(), nil
	}
	client := auth.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return auth.NewRedisStore(client), nil
}
