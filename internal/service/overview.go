package service

import (
	"context"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/insights"

	"golang.org/x/sync/errgroup"
)

// GetOverview builds the business-wide dashboard over all customers,
// products, transactions and scored tickets.
func (s *InsightsService) GetOverview(ctx context.Context) (_ *domain.Overview, err error) {
	ctx, span := tracer.Start(ctx, "InsightsService.GetOverview")
	defer span.End()
	defer s.observe("overview", time.Now(), &err)

	var (
		sales     []domain.SalesTransaction
		tickets   []domain.SupportTicket
		customers []domain.Customer
		products  []domain.Product
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

	buyerNames := customerNames(customers)
	catalogNames := productNames(products)
	salesStats := insights.SummarizeSales(sales)
	support := insights.SummarizeSupport(tickets)
	avgSale, _ := salesStats.Mean()

	best := []domain.ProductRevenue{}
	if top, ok := insights.BestSellingProduct(sales, catalogNames); ok {
		best = append(best, domain.ProductRevenue{
			ProductID:   top.ProductID,
			ProductName: top.Name,
			SalesCount:  top.Count,
			Revenue:     insights.Round2(top.Revenue),
		})
	}
	problematic := []domain.ProductIssues{}
	if top, ok := insights.MostProblematicProduct(tickets, catalogNames); ok {
		problematic = append(problematic, domain.ProductIssues{
			ProductID:   top.ProductID,
			ProductName: top.Name,
			IssueCount:  top.Count,
		})
	}

	return &domain.Overview{
		SalesOverview: domain.SalesOverview{
			TotalSales:   salesStats.Count,
			TotalRevenue: insights.Round2(salesStats.Total),
			AvgSaleValue: insights.Round2(avgSale),
			SalesTrend:   presentAmounts(insights.Tail(insights.MonthlySales(sales), insights.TrendMonths)),
		},
		CustomerOverview: domain.CustomerOverview{
			TotalCustomers:        len(customers),
			NewCustomersThisMonth: insights.CountJoinedIn(customers, s.now()),
			TopCustomers: presentBuyers(
				insights.RankCustomersBySpend(sales, buyerNames, insights.TopCustomersLimit), true),
		},
		ProductOverview: domain.ProductOverview{
			TotalProducts:          len(products),
			AvgProductPrice:        insights.Round2(insights.MeanSalesPrice(products)),
			BestSellingProduct:     best,
			MostProblematicProduct: problematic,
		},
		SupportOverview: domain.SupportOverview{
			TotalTickets:           support.Count,
			AvgSentiment:           optional(support.MeanSentiment()),
			SupportStatusBreakdown: presentStatuses(insights.StatusBreakdown(tickets)),
			SentimentTrend:         presentScores(insights.Tail(insights.MonthlySentiment(tickets), insights.TrendMonths)),
		},
	}, nil
}
