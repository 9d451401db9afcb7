package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/batipro-erp/batipro-erp/internal/app"
	"github.com/batipro-erp/batipro-erp/internal/billing"
	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/clients"
	"github.com/batipro-erp/batipro-erp/internal/inventory"
	"github.com/batipro-erp/batipro-erp/internal/platform/cache"
	"github.com/batipro-erp/batipro-erp/internal/platform/db"
	"github.com/batipro-erp/batipro-erp/internal/production"
	"github.com/batipro-erp/batipro-erp/jobs"
	"github.com/batipro-erp/batipro-erp/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		// PDF caching degrades gracefully without Redis.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	productionRepo := production.NewRepository(pool)
	productionService := production.NewService(productionRepo, inventoryService, catalogService)
	productionHandler := production.NewHandler(logger, productionService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, catalogService)
	billingHandler := billing.NewHandler(logger, billingService)

	gotenberg := report.NewClient(cfg.GotenbergURL)
	pdfCache := report.NewPDFCache(redisClient, cfg.PDFCacheTTL)
	reportService := report.NewService(logger, billingService, gotenberg, pdfCache)
	reportHandler := report.NewHandler(logger, reportService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ClientsHandler:    clientsHandler,
		CatalogHandler:    catalogHandler,
		InventoryHandler:  inventoryHandler,
		ProductionHandler: productionHandler,
		BillingHandler:    billingHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
