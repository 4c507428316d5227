package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hesab/hesab/internal/app"
	"github.com/hesab/hesab/internal/budget"
	calendarhttp "github.com/hesab/hesab/internal/calendar/http"
	"github.com/hesab/hesab/internal/categories"
	"github.com/hesab/hesab/internal/notifications"
	jobmetrics "github.com/hesab/hesab/internal/jobs"
	"github.com/hesab/hesab/internal/observability"
	"github.com/hesab/hesab/internal/platform/cache"
	"github.com/hesab/hesab/internal/platform/db"
	"github.com/hesab/hesab/internal/settings"
	"github.com/hesab/hesab/internal/shared"
	"github.com/hesab/hesab/internal/transactions"
	"github.com/hesab/hesab/jobs"
)

func runServer(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return err
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.Postgres())
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return err
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	jobmetrics.NewMetrics(metrics.Registerer())

	settingsService := settings.NewService(
		settings.NewRepository(dbpool),
		settings.NewCache(redisClient, cfg.SettingsCacheTTL),
		logger,
	)
	categoriesService := categories.NewService(categories.NewRepository(dbpool))
	budgetService := budget.NewService(budget.NewRepository(dbpool), settingsService, categoriesService, logger).
		WithAuditor(shared.NewAuditLogger(dbpool))

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	transactionsService := transactions.NewService(transactions.NewRepository(dbpool), settingsService, jobClient, logger)
	notificationsService := notifications.NewService(notifications.NewRepository(dbpool), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SettingsHandler:      settings.NewHandler(logger, settingsService),
		CategoriesHandler:    categories.NewHandler(logger, categoriesService),
		TransactionsHandler:  transactions.NewHandler(logger, transactionsService),
		BudgetHandler:        budget.NewHandler(logger, budgetService, shared.NewIdempotencyStore(dbpool), jobClient),
		NotificationsHandler: notifications.NewHandler(logger, notificationsService),
		CalendarHandler:      calendarhttp.NewHandler(logger),
		JobHandler:           jobs.NewHandler(inspector, logger),
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			logger.Error("http server", slog.Any("error", err))
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return err
	}
	return nil
}
