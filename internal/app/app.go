// Package app wires configuration into a ready InsightsService. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"fmt"

	"github.com/boddenberg/retail-insights/internal/config"
	"github.com/boddenberg/retail-insights/internal/infra/cache"
	"github.com/boddenberg/retail-insights/internal/infra/observability"
	"github.com/boddenberg/retail-insights/internal/infra/resilience"
	"github.com/boddenberg/retail-insights/internal/infra/sqlstore"
	"github.com/boddenberg/retail-insights/internal/service"

	"go.uber.org/zap"
)

// App holds the long-lived components built from a Config.
type App struct {
	Service *service.InsightsService
	Metrics *observability.Metrics
	DB      *sqlstore.DB

	ltvCache *cache.InMemory[service.LTVSnapshot]
}

// New opens the store and builds the service on top of it. Callers must
// Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	store := sqlstore.NewStore(db, resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}, logger)

	metrics := observability.NewMetrics()
	ltvCache := cache.New[service.LTVSnapshot](cfg.LTVThresholdTTL)

	svc := service.NewInsightsService(store, ltvCache, metrics, logger, service.Options{
		RecommendationTopN: cfg.RecommendationTopN,
	})

	logger.Info("store ready",
		zap.String("driver", db.Driver()),
		zap.Bool("ltv_cache_enabled", ltvCache.Enabled()),
	)
	return &App{Service: svc, Metrics: metrics, DB: db, ltvCache: ltvCache}, nil
}

// Close stops the cache janitor and releases the store connection pool.
func (a *App) Close() error {
	a.ltvCache.Close()
	return a.DB.Close()
}
