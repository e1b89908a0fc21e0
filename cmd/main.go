package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "adflow/internal/adapter/http"
	"adflow/internal/adapter/ledger"
	"adflow/internal/adapter/notify"
	"adflow/internal/adapter/postgres"
	"adflow/internal/adapter/publish"
	"adflow/internal/adapter/usecase"
	"adflow/internal/config"
	"adflow/internal/core/port"
	"adflow/internal/core/pricing"
	"adflow/internal/db"
)

// main loads configuration, optionally runs database migrations,
// initialises the database pool and repositories, starts the payment
// reconciliation and campaign publication loops and the HTTP server,
// then shuts everything down gracefully on a termination signal.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.SeedDemo {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		}
	}

	paymentRepo := postgres.NewPaymentRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	notifier := notify.NewLogNotifier(logger)
	ledgerClient := ledger.NewClient(cfg.Ledger)

	var publisher port.Publisher
	if cfg.Campaigns.PublisherURL != "" {
		publisher = publish.NewWebhook(cfg.Campaigns.PublisherURL, cfg.Campaigns.PublisherTimeout)
	} else {
		publisher = publish.NewLog(logger)
	}

	engine := pricing.NewEngine(pricing.Params{
		UnitPrice: cfg.Pricing.UnitPrice,
		Rates:     cfg.Pricing.Rates,
	})
	reconciler := usecase.NewPaymentReconciler(paymentRepo, ledgerClient, notifier, logger, cfg.Payments)
	tracker := usecase.NewCampaignTracker(campaignRepo, paymentRepo, publisher, notifier, logger, cfg.Campaigns)

	go reconciler.Run(ctx)
	go tracker.Run(ctx)

	handler := httpadapter.NewHandler(engine, reconciler, tracker, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
