package service

import (
	"context"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/insights"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetAnomalousCustomers returns customers whose count of negative support
// tickets has a population z-score above zThreshold.
func (s *InsightsService) GetAnomalousCustomers(ctx context.Context, zThreshold float64) (_ []domain.AnomalyEntry, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetAnomalousCustomers")
	defer span.End()
	defer s.observe("anomalies", time.Now(), &err)

	if err := validateThreshold("z_threshold", zThreshold); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Float64("z_threshold", zThreshold))

	var (
		tickets   []domain.SupportTicket
		customers []domain.Customer
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListTickets(gCtx, domain.TicketFilter{})
		if err != nil {
			return s.fail("all tickets", err)
		}
		tickets = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListCustomers(gCtx, "")
		if err != nil {
			return s.fail("all customers", err)
		}
		customers = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := insights.DetectAnomalies(tickets, customerNames(customers), zThreshold)
	s.logger.Debug("anomaly scan",
		zap.Float64("z_threshold", zThreshold),
		zap.Int("tickets", len(tickets)),
		zap.Int("anomalies", len(found)),
	)
	return presentAnomalies(found), nil
}

// GetTrendingProducts compares each product's latest-month sales with its
// trailing three-month average and reports moves of at least threshold.
func (s *InsightsService) GetTrendingProducts(ctx context.Context, threshold float64) (_ *domain.TrendingProducts, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetTrendingProducts")
	defer span.End()
	defer s.observe("trends", time.Now(), &err)

	if err := validateThreshold("threshold", threshold); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Float64("threshold", threshold))

	var (
		sales    []domain.SalesTransaction
		products []domain.Product
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListSales(gCtx, domain.SalesFilter{})
		if err != nil {
			return s.fail("all sales", err)
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListProducts(gCtx, "")
		if err != nil {
			return s.fail("all products", err)
		}
		products = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rising, falling := insights.DetectTrends(sales, productNames(products), threshold)
	return &domain.TrendingProducts{
		RisingTrends:  presentTrends(rising),
		FallingTrends: presentTrends(falling),
	}, nil
}

// GetEngineMetrics returns the JSON snapshot of the engine counters.
func (s *InsightsService) GetEngineMetrics() *domain.EngineMetrics {
	return s.metrics.GetEngineSnapshot()
}
