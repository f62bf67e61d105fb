package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/retail-insights/internal/app"
	"github.com/boddenberg/retail-insights/internal/config"
	"github.com/boddenberg/retail-insights/internal/handler"
	"github.com/boddenberg/retail-insights/internal/infra/observability"

	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "path to a config file (yaml, json, toml or .env)")
	flag.Parse()

	// --- Config ---
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("log_level", cfg.LogLevel),
		zap.String("db_driver", cfg.DBDriver),
		zap.Duration("ltv_threshold_ttl", cfg.LTVThresholdTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(context.Background(), "retail-insights", cfg.OTLPEndpoint, cfg.TracingEnabled)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Store + service ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	insights, err := app.New(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	defer insights.Close()

	// --- Router ---
	router := handler.NewRouter(insights.Service, handler.Options{
		CORSOrigins:       cfg.CORSOrigins,
		AnomalyZThreshold: cfg.AnomalyZThreshold,
		TrendThreshold:    cfg.TrendThreshold,
	}, insights.Metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
