package insights

import (
	"math"
	"slices"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
)

const (
	// LTVPercentile is the population quantile used as max_ltv.
	LTVPercentile = 0.95

	// minMaxLTV floors max_ltv so scores never divide by zero.
	minMaxLTV = 1.0

	daysPerYear = 365.0
)

// PurchaseHistory is what the LTV formula needs to know about one customer.
type PurchaseHistory struct {
	Purchases  int
	TotalSpent float64
	First      time.Time
	Last       time.Time
}

// HistoryOf folds a customer's transactions into a PurchaseHistory.
func HistoryOf(sales []domain.SalesTransaction) PurchaseHistory {
	var h PurchaseHistory
	for _, s := range sales {
		h.Purchases++
		h.TotalSpent += s.SaleAmount
		if s.Date.IsZero() {
			continue
		}
		if h.First.IsZero() || s.Date.Before(h.First) {
			h.First = s.Date
		}
		if s.Date.After(h.Last) {
			h.Last = s.Date
		}
	}
	return h
}

// AvgOrderValue is the mean sale amount, 0 for a customer without purchases.
func (h PurchaseHistory) AvgOrderValue() float64 {
	if h.Purchases == 0 {
		return 0
	}
	return h.TotalSpent / float64(h.Purchases)
}

// LifespanYears is the whole-day span between first and last purchase in
// years, at least 1. Customers with a single purchase have a lifespan of 1.
func (h PurchaseHistory) LifespanYears() float64 {
	if h.Purchases <= 1 {
		return 1
	}
	days := math.Floor(h.Last.Sub(h.First).Hours() / 24)
	return math.Max(days/daysPerYear, 1)
}

// Frequency is purchases per year of lifespan.
func (h PurchaseHistory) Frequency() float64 {
	if h.Purchases <= 1 {
		return float64(h.Purchases)
	}
	return float64(h.Purchases) / h.LifespanYears()
}

// RawLTV is avg_order_value × frequency × lifespan_years.
func RawLTV(h PurchaseHistory) float64 {
	return h.AvgOrderValue() * h.Frequency() * h.LifespanYears()
}

// PopulationRawLTV returns the raw LTV of every customer. Customers without
// transactions contribute 0; transactions of unknown customers are ignored.
func PopulationRawLTV(customers []domain.Customer, sales []domain.SalesTransaction) []float64 {
	byCustomer := make(map[int64][]domain.SalesTransaction, len(customers))
	for _, s := range sales {
		byCustomer[s.CustomerID] = append(byCustomer[s.CustomerID], s)
	}
	raws := make([]float64, 0, len(customers))
	for _, c := range customers {
		raws = append(raws, RawLTV(HistoryOf(byCustomer[c.ID])))
	}
	return raws
}

// LTVThreshold is the LTVPercentile quantile of the raw LTV population,
// floored at 1. An empty population yields the floor.
func LTVThreshold(raws []float64) float64 {
	if len(raws) == 0 {
		return minMaxLTV
	}
	sorted := slices.Clone(raws)
	slices.Sort(sorted)
	return math.Max(linearQuantile(LTVPercentile, sorted), minMaxLTV)
}

// linearQuantile interpolates between the closest ranks at (n-1)·p
// (Hyndman-Fan type 7). sorted must be ascending and non-empty.
func linearQuantile(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// LTVScore normalizes a raw LTV against max_ltv into [0,1], two decimals.
func LTVScore(raw, maxLTV float64) float64 {
	if maxLTV < minMaxLTV {
		maxLTV = minMaxLTV
	}
	score := math.Min(1.0, raw/maxLTV)
	if score < 0 {
		score = 0
	}
	return Round2(score)
}
