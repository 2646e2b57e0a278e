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
	"golang.org/x/sync/errgroup"

	"daftar/internal/assistant"
	"daftar/internal/auth"
	"daftar/internal/backend"
	"daftar/internal/config"
	"daftar/internal/core"
	apphttp "daftar/internal/http"
	applog "daftar/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:            backend.Type(cfg.DataBackend),
		SQLiteDBPath:    cfg.SQLiteDBPath,
		AMQPURL:         cfg.AMQPURL,
		AMQPExchange:    cfg.AMQPExchange,
		AMQPQueue:       cfg.AMQPQueue,
		SupabaseURL:     cfg.SupabaseURL,
		SupabaseAnonKey: cfg.SupabaseAnonKey,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// The assistant only activates with an API key; the endpoint answers
	// 503 otherwise.
	var asst *assistant.Assistant
	if cfg.OpenAIAPIKey != "" {
		asst = assistant.New(
			assistant.NewOpenAIClient(cfg.OpenAIAPIKey),
			result.Backend,
			cfg.OpenAIModel,
			core.Locale(cfg.Locale),
			cfg.AssistantTimeout,
		)
		logger.Info("Assistant enabled", "model", cfg.OpenAIModel)
	} else {
		logger.Info("Assistant disabled - no OPENAI_API_KEY provided")
	}

	var verifier *auth.Verifier
	if cfg.SupabaseJWTSecret != "" {
		verifier = auth.NewVerifier(cfg.SupabaseJWTSecret)
		logger.Info("Bearer token verification enabled")
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Backend, asst, verifier, apphttp.Options{
		TaxRateBP:           cfg.InvoiceTaxRateBP,
		UpcomingChecksLimit: cfg.UpcomingChecksLimit,
		Locale:              core.Locale(cfg.Locale),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Requests log through a component-scoped logger. The server stamps the
	// request id itself, honoring a proxy-supplied X-Request-Id.
	httpLogger := logger.WithComponent(applog.ComponentHTTP)
	srv.Handler = applog.Middleware(httpLogger)(srv.Handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting daftar server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
