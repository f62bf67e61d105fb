package service

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/insights"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ListProducts returns products whose name or category contains search,
// case-insensitively. An empty search returns the whole catalog.
func (s *InsightsService) ListProducts(ctx context.Context, search string) (_ []domain.ProductRecord, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.ListProducts")
	defer span.End()
	defer s.observe("list_products", time.Now(), &err)

	products, err := s.store.ListProducts(ctx, search)
	if err != nil {
		return nil, s.fail("list products", err)
	}
	return presentProducts(products), nil
}

// GetProductProfile builds the profile of one product: sales and support
// summaries, charts, repeat buyers and frequently-bought-together picks.
func (s *InsightsService) GetProductProfile(ctx context.Context, productID int64) (_ *domain.ProductProfile, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetProductProfile")
	defer span.End()
	defer s.observe("product_profile", time.Now(), &err)
	span.SetAttributes(attribute.Int64("product.id", productID))

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, s.fail("get product", err)
	}

	var (
		sales     []domain.SalesTransaction
		tickets   []domain.SupportTicket
		customers []domain.Customer
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListSales(gCtx, domain.SalesFilter{ProductID: productID})
		if err != nil {
			return s.fail("product sales", err)
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListTickets(gCtx, domain.TicketFilter{ProductID: productID})
		if err != nil {
			return s.fail("product tickets", err)
		}
		tickets = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListCustomers(gCtx, "")
		if err != nil {
			return s.fail("customers", err)
		}
		customers = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	together, err := s.boughtTogether(ctx, productID, sales)
	if err != nil {
		return nil, err
	}

	stats := insights.SummarizeSales(sales)
	s.logger.Debug("product profile built",
		zap.Int64("product_id", productID),
		zap.Int("transactions", stats.Count),
		zap.Int("recommendations", len(together)),
	)

	return &domain.ProductProfile{
		Product: presentProduct(*product),
		SalesSummary: domain.ProductSalesSummary{
			TotalSales:   stats.Count,
			TotalRevenue: insights.Round2(stats.Total),
			AvgSaleValue: optional(stats.Mean()),
		},
		SupportSummary: presentSupport(insights.SummarizeSupport(tickets)),
		Charts:         presentCharts(sales, tickets),
		TopCustomers: presentBuyers(
			insights.RepeatBuyers(sales, customerNames(customers), insights.TopCustomersLimit), false),
		FrequentlyBoughtTogether: presentRecommendations(together),
	}, nil
}

// boughtTogether loads every purchase made by the buyers of productID and
// ranks the other products in them. productSales are the sales of
// productID itself.
func (s *InsightsService) boughtTogether(ctx context.Context, productID int64, productSales []domain.SalesTransaction) ([]insights.CoPurchase, error) {
	buyers := insights.BuyersOf(productID, productSales)
	if len(buyers) == 0 {
		return []insights.CoPurchase{}, nil
	}

	buyerSales, err := s.store.ListSales(ctx, domain.SalesFilter{
		CustomerIDs: slices.Sorted(maps.Keys(buyers)),
	})
	if err != nil {
		return nil, s.fail("buyer sales", err)
	}

	ids := insights.CoPurchasedIDs(productID, buyerSales)
	if len(ids) == 0 {
		return []insights.CoPurchase{}, nil
	}
	related, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail("related products", err)
	}
	return insights.FrequentlyBoughtTogether(productID, buyerSales, catalogOf(related), s.topN), nil
}

// ListProductSuppliers returns the suppliers of a product, most reliable
// first.
func (s *InsightsService) ListProductSuppliers(ctx context.Context, productID int64) (_ []domain.SupplierRecord, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.ListProductSuppliers")
	defer span.End()
	defer s.observe("product_suppliers", time.Now(), &err)

	_, err = s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, s.fail("get product", err)
	}

	suppliers, err := s.store.ListSuppliers(ctx, productID)
	if err != nil {
		return nil, s.fail("list suppliers", err)
	}
	return presentSuppliers(suppliers), nil
}
