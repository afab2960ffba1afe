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

	"github.com/margem-app/margem/internal/app"
	"github.com/margem-app/margem/internal/expenses"
	"github.com/margem-app/margem/internal/ingredients"
	"github.com/margem-app/margem/internal/observability"
	"github.com/margem-app/margem/internal/platform/cache"
	"github.com/margem-app/margem/internal/platform/db"
	"github.com/margem-app/margem/internal/pricing"
	"github.com/margem-app/margem/internal/products"
	"github.com/margem-app/margem/internal/taxes"
	"github.com/margem-app/margem/jobs"
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	summaryCache := pricing.NewSummaryCache(redisClient, cfg.SummaryTTL)
	pricingRepo := pricing.NewRepository(pool)
	pricingService := pricing.NewService(pricingRepo, summaryCache, metrics, logger)
	pricingHandler := pricing.NewHandler(logger, pricingService, cfg.RecalcRateLimit)

	ingredientService := ingredients.NewService(ingredients.NewRepository(pool), queue, logger)
	ingredientHandler := ingredients.NewHandler(logger, ingredientService)

	taxService := taxes.NewService(taxes.NewRepository(pool), queue, logger)
	taxHandler := taxes.NewHandler(logger, taxService)

	expenseService := expenses.NewService(expenses.NewRepository(pool), queue, logger)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	productService := products.NewService(products.NewRepository(pool), queue, logger)
	productHandler := products.NewHandler(logger, productService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		IngredientHandler: ingredientHandler,
		TaxHandler:        taxHandler,
		ExpenseHandler:    expenseHandler,
		ProductHandler:    productHandler,
		PricingHandler:    pricingHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
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
