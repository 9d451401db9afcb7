package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/batipro-erp/batipro-erp/internal/app"
	"github.com/batipro-erp/batipro-erp/internal/billing"
	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/platform/cache"
	"github.com/batipro-erp/batipro-erp/internal/platform/db"
	"github.com/batipro-erp/batipro-erp/jobs"
	"github.com/batipro-erp/batipro-erp/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	billingService := billing.NewService(billing.NewRepository(pool), catalogService)

	gotenberg := report.NewClient(cfg.GotenbergURL)
	pdfCache := report.NewPDFCache(redisClient, cfg.PDFCacheTTL)
	reportService := report.NewService(logger, billingService, gotenberg, pdfCache)

	expiryJob := jobs.NewQuoteExpiryJob(billingService, logger)
	warmupJob := jobs.NewReceivablesWarmupJob(reportService, logger)

	expiryTask, err := jobs.NewQuoteExpiryTask(jobs.QuoteExpiryPayload{})
	if err != nil {
		logger.Error("build expiry task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewReceivablesWarmupTask(jobs.ReceivablesWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskQuoteExpirySweep, Handler: expiryJob.Handle},
			{Type: jobs.TaskReceivablesWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 1 * * *", Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 5 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
