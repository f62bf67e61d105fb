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

// ListCustomers returns customers whose name, region or industry contains
// search, case-insensitively. An empty search returns every customer.
func (s *InsightsService) ListCustomers(ctx context.Context, search string) (_ []domain.CustomerRecord, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.ListCustomers")
	defer span.End()
	defer s.observe("list_customers", time.Now(), &err)

	customers, err := s.store.ListCustomers(ctx, search)
	if err != nil {
		return nil, s.fail("list customers", err)
	}
	return presentCustomers(customers), nil
}

// GetCustomerProfile builds the profile of one customer: purchase and
// support summaries, LTV score, heuristic insights and monthly charts.
func (s *InsightsService) GetCustomerProfile(ctx context.Context, customerID int64) (_ *domain.CustomerProfile, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetCustomerProfile")
	defer span.End()
	defer s.observe("customer_profile", time.Now(), &err)
	span.SetAttributes(attribute.Int64("customer.id", customerID))

	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, s.fail("get customer", err)
	}

	var (
		sales   []domain.SalesTransaction
		tickets []domain.SupportTicket
		ltv     LTVSnapshot
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListSales(gCtx, domain.SalesFilter{CustomerID: customerID})
		if err != nil {
			return s.fail("customer sales", err)
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListTickets(gCtx, domain.TicketFilter{CustomerID: customerID})
		if err != nil {
			return s.fail("customer tickets", err)
		}
		tickets = rows
		return nil
	})
	g.Go(func() error {
		snap, err := s.ltvThreshold(gCtx)
		if err != nil {
			return err
		}
		ltv = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	topCategory := ""
	if ids := insights.DistinctProductIDs(sales); len(ids) > 0 {
		purchased, err := s.store.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, s.fail("purchased products", err)
		}
		if category, ok := insights.TopHighMarginCategory(purchased); ok {
			topCategory = category
		}
	}

	history := insights.HistoryOf(sales)
	support := insights.SummarizeSupport(tickets)
	found := insights.GenerateInsights(insights.CustomerSignals{
		Support:         support,
		Purchases:       history.Purchases,
		RecentPurchases: insights.CountSince(sales, s.now().Add(-insights.ChurnWindow)),
		TopCategory:     topCategory,
	})
	for _, f := range found {
		s.metrics.IncrInsight(string(f.Rule))
	}
	s.logger.Debug("customer profile built",
		zap.Int64("customer_id", customerID),
		zap.Int("transactions", len(sales)),
		zap.Int("tickets", len(tickets)),
		zap.Int("insights", len(found)),
		zap.String("ltv_snapshot", ltv.ID),
	)

	return &domain.CustomerProfile{
		Customer: presentCustomer(*customer),
		SalesSummary: domain.SalesSummary{
			TotalPurchases: history.Purchases,
			TotalSpent:     insights.Round2(history.TotalSpent),
			AvgOrderValue:  optional(history.AvgOrderValue(), history.Purchases > 0),
			LTVScore:       insights.LTVScore(insights.RawLTV(history), ltv.MaxLTV),
		},
		SupportSummary: presentSupport(support),
		AIInsights:     presentInsights(found),
		Charts:         presentCharts(sales, tickets),
	}, nil
}
