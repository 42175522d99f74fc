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
	"github.com/joho/godotenv"

	"github.com/contalibre/contalibre/internal/app"
	"github.com/contalibre/contalibre/internal/auth"
	"github.com/contalibre/contalibre/internal/dashboard"
	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/closing"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
	"github.com/contalibre/contalibre/internal/observability"
	"github.com/contalibre/contalibre/internal/platform/cache"
	"github.com/contalibre/contalibre/internal/platform/db"
	reporthttp "github.com/contalibre/contalibre/internal/reports/http"
	"github.com/contalibre/contalibre/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

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
		logger.Warn("redis unavailable, balance cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogRepo := catalog.NewRepository(pool)
	chart, err := catalog.LoadChart(cfg.ChartPath)
	if err != nil {
		logger.Error("load chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}
	if err := catalog.Seed(ctx, catalogRepo, chart); err != nil {
		logger.Error("seed chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}
	catalogService := catalog.NewService(catalogRepo)

	metrics := observability.NewMetrics()

	balanceCache := balances.NewCache(redisClient, cfg.BalanceCacheTTL)
	balanceStore := balances.NewStore(pool)
	balanceService := balances.NewService(balanceStore, catalogService, balanceCache)

	periodRepo := periods.NewRepository(pool)
	periodService := periods.NewService(periodRepo)

	transactionRepo := transactions.NewRepository(pool)
	transactionService := transactions.NewService(transactionRepo, catalogService, balanceService, logger)
	transactionService.WithMetrics(metrics)

	closingService := closing.NewService(transactionService, balanceService, transactionRepo, periodService, logger)
	closingService.WithMetrics(metrics)

	dashboardService := dashboard.NewService(balanceService, transactionService, periodService, closingService)

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)

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
		TokenIssuer:        tokenIssuer,
		AuthHandler:        auth.NewHandler(authService, tokenIssuer),
		CatalogHandler:     catalog.NewHandler(catalogService),
		PeriodHandler:      periods.NewHandler(periodService, closingService),
		TransactionHandler: transactions.NewHandler(transactionService),
		ClosingHandler:     closing.NewHandler(closingService),
		ReportHandler:      reporthttp.NewHandler(logger, balanceService, periodService, catalogService),
		DashboardHandler:   dashboard.NewHandler(dashboardService),
		JobHandler:         jobHandler,
		Metrics:            metrics,
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
