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
	"github.com/redis/go-redis/v9"

	"github.com/lembarbuku/lembarbuku/internal/app"
	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/observability"
	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
	"github.com/lembarbuku/lembarbuku/internal/reports"
	"github.com/lembarbuku/lembarbuku/internal/shared"
	"github.com/lembarbuku/lembarbuku/internal/statements"
	"github.com/lembarbuku/lembarbuku/jobs"
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

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data dir", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := csvdb.New(cfg.DataDir)
	auditLogger := shared.NewAuditLogger(cfg.DataDir)
	metrics := observability.NewMetrics()

	propagator := ledger.NewPropagator(store, auditLogger, logger)

	reportCache := reports.NewCache(redisClient, cfg.CacheTTL)
	reportService := reports.NewService(store, logger)
	reportHandler := reports.NewHandler(logger, reportService, reportCache)

	statementService := statements.NewService(store)
	statementHandler := statements.NewHandler(logger, statementService)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	transactionHandler := ledger.NewHandler(logger, propagator, func(updated []string) {
		for _, name := range updated {
			metrics.RecordReportUpdate(name)
		}
		if len(updated) == 0 {
			return
		}
		if err := reportCache.Bump(ctx); err != nil {
			logger.Warn("bump report cache", slog.Any("error", err))
		}
		payload := jobs.LedgerIntegrityPayload{RequestedAt: time.Now()}
		if _, err := jobClient.EnqueueLedgerIntegrity(ctx, payload); err != nil {
			logger.Warn("enqueue integrity sweep", slog.Any("error", err))
		}
	})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Metrics:            metrics,
		TransactionHandler: transactionHandler,
		ReportHandler:      reportHandler,
		StatementHandler:   statementHandler,
		JobHandler:         jobHandler,
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
