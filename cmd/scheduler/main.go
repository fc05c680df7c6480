package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokerage_backend/internal/adapters"
	"brokerage_backend/internal/adapters/storage"
	"brokerage_backend/internal/analytics"
	"brokerage_backend/internal/email"
	"brokerage_backend/internal/events"
	"brokerage_backend/internal/scheduler"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/db"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	sender := email.NewSender(cfg)
	if !cfg.IsEmailEnabled() {
		log.Warn("email disabled; analytics reports will be rendered but not delivered")
	}

	// Worker-side analytics wiring (no HTTP handlers are mounted). Metrics go
	// to a private registry because the worker does not serve /metrics.
	analyticsModule := analytics.NewModule(pool, eventBus, validator.New(), nil, prometheus.NewRegistry(), cfg, log)

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		archive := adapters.NewExportArchive(storageSvc, cfg.GetMinioBucketAnalyticsExports(), analyticsModule.Repository(), log)
		eventBus.Subscribe(events.AnalyticsExported{}.EventName(), archive)
	}

	deliveryQueue, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize delivery queue", "error", err)
		panic("failed to initialize delivery queue: " + err.Error())
	}
	defer func() { _ = deliveryQueue.Close() }()

	reports := scheduler.NewReportProcessor(analyticsModule.Service(), deliveryQueue, log)
	deliveries := scheduler.NewDeliveryProcessor(sender, log)
	worker, err := scheduler.NewWorker(cfg, reports, deliveries, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
