// Package service composes store reads and the insights engine into the
// operations exposed over HTTP and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/infra/observability"
	"github.com/boddenberg/retail-insights/internal/insights"
	"github.com/boddenberg/retail-insights/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/insights")

// Options tunes the service. Zero values select the engine defaults.
type Options struct {
	RecommendationTopN int
	// Now is the clock used for churn windows and "this month" rollups.
	Now func() time.Time
}

// InsightsService answers every read-only insight query.
type InsightsService struct {
	store    port.InsightsStore
	ltvCache port.Cache[LTVSnapshot]
	metrics  *observability.Metrics
	logger   *zap.Logger
	topN     int
	now      func() time.Time
}

// NewInsightsService creates the service with all dependencies injected.
func NewInsightsService(
	store port.InsightsStore,
	ltvCache port.Cache[LTVSnapshot],
	metrics *observability.Metrics,
	logger *zap.Logger,
	opts Options,
) *InsightsService {
	if opts.RecommendationTopN <= 0 {
		opts.RecommendationTopN = insights.DefaultRecommendationLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &InsightsService{
		store:    store,
		ltvCache: ltvCache,
		metrics:  metrics,
		logger:   logger,
		topN:     opts.RecommendationTopN,
		now:      opts.Now,
	}
}

// Ping checks that the store answers.
func (s *InsightsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// observe records duration and outcome of one operation. Not-found,
// validation and client cancellation count as successes.
func (s *InsightsService) observe(operation string, start time.Time, err *error) {
	s.metrics.RecordRequestDuration(operation, time.Since(start))
	status := "success"
	if *err != nil && !isClientError(*err) {
		status = "error"
	}
	s.metrics.IncrRequest(status)
}

func isClientError(err error) bool {
	var nf *domain.ErrNotFound
	var ve *domain.ErrValidation
	return errors.As(err, &nf) || errors.As(err, &ve) || errors.Is(err, context.Canceled)
}

// fail logs a store failure, counts it and adds the step as context.
// Cancelled reads are neither logged nor counted.
func (s *InsightsService) fail(step string, err error) error {
	var unavailable *domain.ErrStoreUnavailable
	if errors.As(err, &unavailable) {
		s.metrics.IncrStoreError(unavailable.Op)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("insights: store read timed out", zap.String("step", step))
	case !isClientError(err):
		s.logger.Error("insights: store read failed", zap.String("step", step), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", step, err)
}

func validateThreshold(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &domain.ErrValidation{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &domain.ErrValidation{Field: field, Message: "must not be negative"}
	}
	return nil
}

func customerNames(customers []domain.Customer) map[int64]string {
	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names
}

func productNames(products []domain.Product) map[int64]string {
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

func catalogOf(products []domain.Product) map[int64]domain.Product {
	catalog := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return catalog
}
