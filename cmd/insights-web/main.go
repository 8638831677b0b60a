// cmd/insights-web/main.go
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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"customer-insights/internal/common/config"
	"customer-insights/internal/common/database"
	commonhttp "customer-insights/internal/common/http"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/common/observability"
	recommendation "customer-insights/internal/flows/recommendation"
	segmentlookup "customer-insights/internal/flows/segment-lookup"
	"customer-insights/internal/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting insights web server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("apiBaseURL", cfg.API.BaseURL),
	)

	var obs *observability.Observability
	if cfg.Metrics.Enabled {
		obs = observability.New(cfg.App.Name, nil)
		defer obs.Shutdown()
	}

	ctx := context.Background()

	// --- Session store ---
	var store web.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Session.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		store = web.NewRedisStore(redis, cfg.Server.SessionTTLDuration())
	default:
		store = web.NewMemoryStore(cfg.Server.SessionTTLDuration())
	}

	// --- Flows ---
	client := commonhttp.NewClient(config.GetDuration(cfg.API.Timeout), obs)
	segment := segmentlookup.NewHandler(segmentlookup.LoadConfig(cfg.API), client, log)
	recommend := recommendation.NewHandler(recommendation.LoadConfig(cfg.API), client, log)

	opts := web.Options{
		Segment:      segment,
		Recommend:    recommend,
		Store:        store,
		Probe:        web.NewBackendProbe(cfg.API.BaseURL, client),
		Logger:       log,
		SessionTTL:   cfg.Server.SessionTTLDuration(),
		CookieSecure: cfg.Server.CookieSecure,
		AppName:      cfg.App.Name,
		Version:      cfg.App.Version,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsHandler = promhttp.Handler()
	}
	server := web.NewServer(opts)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Insights web server stopped")
}
