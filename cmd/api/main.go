package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/tuition-onboarding/internal/api/router"
	"github.com/wolfman30/tuition-onboarding/internal/app/bootstrap"
	appconfig "github.com/wolfman30/tuition-onboarding/internal/config"
	"github.com/wolfman30/tuition-onboarding/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/tuition-onboarding/internal/http/middleware"
	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
	"github.com/wolfman30/tuition-onboarding/internal/relay"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

func main() {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting tuition onboarding API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"webhook_configured", cfg.WebhookConfigured(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	limiter := setupSubmitLimiter(ctx, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildHandler(cfg, redisClient, limiter, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildHandler wires every HTTP dependency. redisClient and limiter may be nil.
func buildHandler(cfg *appconfig.Config, redisClient *redis.Client, limiter *httpmiddleware.SubmitLimiter, logger *logging.Logger) http.Handler {
	metricsHandler, m := bootstrap.BuildMetrics()
	sub := bootstrap.BuildSubmission(cfg, redisClient, m, logger)

	onboardingHandler := handlers.NewOnboardingHandler(handlers.OnboardingConfig{
		Rules:     onboarding.NewRules(),
		Submitter: sub.Service,
		Metrics:   m,
		Logger:    logger,
		Currency:  cfg.Currency,
	})

	return router.New(&router.Config{
		Logger:             logger,
		Onboarding:         onboardingHandler,
		Relay:              relay.NewHandler(sub.Forwarder, logger),
		MetricsHandler:     metricsHandler,
		SubmitLimiter:      limiter,
		OnboardingToken:    cfg.OnboardingToken,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	})
}

// setupSubmitLimiter returns nil when SUBMIT_RATE_PER_MINUTE is not positive.
func setupSubmitLimiter(ctx context.Context, cfg *appconfig.Config) *httpmiddleware.SubmitLimiter {
	if cfg.SubmitRatePerMinute <= 0 {
		return nil
	}
	limiter := httpmiddleware.NewSubmitLimiter(cfg.SubmitRatePerMinute, cfg.SubmitRateBurst)
	go limiter.Run(ctx)
	return limiter
}
