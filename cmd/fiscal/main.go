package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fiscal/internal/amqp"
	"fiscal/internal/auth"
	"fiscal/internal/backend"
	"fiscal/internal/config"
	apphttp "fiscal/internal/http"
	"fiscal/internal/insights"
	"fiscal/internal/ledger"
	applog "fiscal/internal/log"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			applog.FieldBackend, cfg.DataBackend, applog.FieldError, err)
		os.Exit(1)
	}
	repo := result.Repository

	// AMQP notifications are optional; the ledger works without them.
	var amqpClient *amqp.Client
	var publisher ledger.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications",
				applog.FieldError, err)
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// AI insights are optional and only enabled when an API key is set.
	var insightsSvc *insights.Service
	if cfg.GoogleAPIKey != "" {
		generator, err := insights.NewGeminiGenerator(ctx, cfg.GoogleAPIKey, cfg.InsightsModel)
		if err != nil {
			logger.Warn("Failed to initialize AI generator, continuing without insights",
				applog.FieldError, err)
		} else {
			insightsSvc = insights.NewService(repo, generator)
			logger.Info("Initialized AI insights", "model", cfg.InsightsModel)
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Ledger:             ledger.NewService(repo, publisher),
		Auth:               auth.NewService(repo),
		Sessions:           auth.NewSessionManager(cfg.SessionTTL),
		Insights:           insightsSvc,
		SecureCookies:      cfg.SecureCookies,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", applog.FieldError, err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(shutdownCtx); err != nil {
				logger.Error("Backend cleanup error", applog.FieldError, err)
			}
		}
		cancel()
	}()

	logger.Info("Starting fiscal server",
		"port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
