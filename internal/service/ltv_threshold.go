package service

import (
	"context"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/infra/observability"
	"github.com/boddenberg/retail-insights/internal/insights"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const ltvCacheKey = "max_ltv"

// LTVSnapshot is one computation of the population max_ltv statistic.
type LTVSnapshot struct {
	ID         string
	MaxLTV     float64
	Population int
	ComputedAt time.Time
}

// GetLTVThreshold returns the max_ltv statistic currently used to
// normalize LTV scores.
func (s *InsightsService) GetLTVThreshold(ctx context.Context) (_ *domain.LTVThreshold, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetLTVThreshold")
	defer span.End()
	defer s.observe("ltv_threshold", time.Now(), &err)

	snap, err := s.ltvThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return presentLTVThreshold(snap), nil
}

// ltvThreshold serves max_ltv from the cache, recomputing it from the full
// customer and transaction population on a miss. Concurrent misses share
// one recomputation.
func (s *InsightsService) ltvThreshold(ctx context.Context) (LTVSnapshot, error) {
	snap, hit, err := s.ltvCache.GetOrLoad(ltvCacheKey, func() (LTVSnapshot, error) {
		return s.computeLTVThreshold(ctx)
	})
	if hit {
		s.metrics.IncrCacheHit(observability.CacheLTVThreshold)
	} else {
		s.metrics.IncrCacheMiss(observability.CacheLTVThreshold)
	}
	return snap, err
}

func (s *InsightsService) computeLTVThreshold(ctx context.Context) (LTVSnapshot, error) {
	ctx, span := tracer.Start(ctx, "InsightsService.computeLTVThreshold")
	defer span.End()

	var (
		customers []domain.Customer
		sales     []domain.SalesTransaction
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.ListCustomers(gCtx, "")
		if err != nil {
			return s.fail("ltv population customers", err)
		}
		customers = c
		return nil
	})
	g.Go(func() error {
		t, err := s.store.ListSales(gCtx, domain.SalesFilter{})
		if err != nil {
			return s.fail("ltv population sales", err)
		}
		sales = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return LTVSnapshot{}, err
	}

	snap := LTVSnapshot{
		ID:         uuid.New().String(),
		MaxLTV:     insights.LTVThreshold(insights.PopulationRawLTV(customers, sales)),
		Population: len(customers),
		ComputedAt: s.now().UTC(),
	}
	span.SetAttributes(
		attribute.Float64("ltv.max", snap.MaxLTV),
		attribute.Int("ltv.population", snap.Population),
	)
	s.logger.Debug("ltv threshold recomputed",
		zap.String("snapshot_id", snap.ID),
		zap.Float64("max_ltv", snap.MaxLTV),
		zap.Int("population", snap.Population),
	)
	return snap, nil
}
