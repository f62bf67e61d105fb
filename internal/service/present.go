package service

import (
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/insights"
)

// Everything in this file turns engine values into wire shapes. Dates are
// formatted and summary figures rounded here and nowhere else.

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// optional rounds v to two decimals, or returns nil when !ok.
func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	r := insights.Round2(v)
	return &r
}

func presentCustomer(c domain.Customer) domain.CustomerRecord {
	return domain.CustomerRecord{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Industry:     c.Industry,
		Region:       c.Region,
		JoinDate:     formatDate(c.JoinDate),
	}
}

func presentCustomers(customers []domain.Customer) []domain.CustomerRecord {
	out := make([]domain.CustomerRecord, 0, len(customers))
	for _, c := range customers {
		out = append(out, presentCustomer(c))
	}
	return out
}

func presentProduct(p domain.Product) domain.ProductRecord {
	return domain.ProductRecord{
		ProductID:   p.ID,
		ProductName: p.Name,
		Category:    p.Category,
		CostPrice:   p.CostPrice,
		SalesPrice:  p.SalesPrice,
	}
}

func presentProducts(products []domain.Product) []domain.ProductRecord {
	out := make([]domain.ProductRecord, 0, len(products))
	for _, p := range products {
		out = append(out, presentProduct(p))
	}
	return out
}

func presentSuppliers(suppliers []domain.Supplier) []domain.SupplierRecord {
	out := make([]domain.SupplierRecord, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, domain.SupplierRecord{
			SupplierID:       s.ID,
			SupplierName:     s.Name,
			ProductID:        s.ProductID,
			LeadTimeDays:     s.LeadTimeDays,
			ReliabilityScore: s.ReliabilityScore,
		})
	}
	return out
}

func presentSupport(st insights.SupportStats) domain.SupportSummary {
	return domain.SupportSummary{
		TotalTickets: st.Count,
		AvgSentiment: optional(st.MeanSentiment()),
		OpenIssues:   st.Open,
	}
}

func presentAmounts(points []insights.MonthlyPoint) []domain.AmountPoint {
	out := make([]domain.AmountPoint, 0, len(points))
	for _, p := range points {
		out = append(out, domain.AmountPoint{Date: p.Period, Amount: p.Value})
	}
	return out
}

func presentScores(points []insights.MonthlyPoint) []domain.ScorePoint {
	out := make([]domain.ScorePoint, 0, len(points))
	for _, p := range points {
		out = append(out, domain.ScorePoint{Date: p.Period, Score: p.Value})
	}
	return out
}

func presentStatuses(counts []insights.StatusCount) []domain.StatusCount {
	out := make([]domain.StatusCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, domain.StatusCount{Status: c.Status, Count: c.Count})
	}
	return out
}

func presentCharts(sales []domain.SalesTransaction, tickets []domain.SupportTicket) domain.Charts {
	return domain.Charts{
		SalesOverTime:          presentAmounts(insights.MonthlySales(sales)),
		SentimentOverTime:      presentScores(insights.MonthlySentiment(tickets)),
		SupportStatusBreakdown: presentStatuses(insights.StatusBreakdown(tickets)),
	}
}

func presentInsights(found []insights.Insight) []string {
	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, f.Message)
	}
	return out
}

// presentBuyers reports purchase counts only; withSpent adds total_spent
// for the overview ranking.
func presentBuyers(ranks []insights.CustomerRank, withSpent bool) []domain.CustomerPurchases {
	out := make([]domain.CustomerPurchases, 0, len(ranks))
	for _, r := range ranks {
		entry := domain.CustomerPurchases{
			CustomerID:    r.CustomerID,
			CustomerName:  r.Name,
			PurchaseCount: r.Purchases,
		}
		if withSpent {
			entry.TotalSpent = optional(r.Spent, true)
		}
		out = append(out, entry)
	}
	return out
}

func presentRecommendations(picks []insights.CoPurchase) []domain.RecommendationEntry {
	out := make([]domain.RecommendationEntry, 0, len(picks))
	for _, p := range picks {
		out = append(out, domain.RecommendationEntry{
			ProductID:     p.Product.ID,
			PurchaseCount: p.Purchases,
			ProductName:   p.Product.Name,
			Category:      p.Product.Category,
			SalesPrice:    p.Product.SalesPrice,
		})
	}
	return out
}

func presentTrends(trends []insights.Trend) []domain.TrendEntry {
	out := make([]domain.TrendEntry, 0, len(trends))
	for _, t := range trends {
		out = append(out, domain.TrendEntry{
			ProductID:   t.ProductID,
			Trend:       string(t.Direction),
			Change:      t.Change,
			ProductName: t.ProductName,
		})
	}
	return out
}

func presentAnomalies(anomalies []insights.Anomaly) []domain.AnomalyEntry {
	out := make([]domain.AnomalyEntry, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, domain.AnomalyEntry{
			CustomerID:          a.CustomerID,
			CustomerName:        a.CustomerName,
			NegativeTicketCount: a.NegativeTickets,
			ZScore:              a.ZScore,
		})
	}
	return out
}

func presentLTVThreshold(snap LTVSnapshot) *domain.LTVThreshold {
	return &domain.LTVThreshold{
		SnapshotID: snap.ID,
		MaxLTV:     snap.MaxLTV,
		Percentile: insights.LTVPercentile,
		Population: snap.Population,
		ComputedAt: snap.ComputedAt.Format(time.RFC3339),
	}
}
