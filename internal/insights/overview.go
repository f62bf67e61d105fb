package insights

import (
	"sort"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"

	"gonum.org/v1/gonum/stat"
)

const (
	// TopCustomersLimit bounds every "top customers" ranking.
	TopCustomersLimit = 5

	// TrendMonths is how many trailing months overview trends show.
	TrendMonths = 6

	// repeatBuyerMin is the purchase count a customer needs to appear among
	// a product's top customers.
	repeatBuyerMin = 2
)

// CustomerRank is a customer's purchase volume.
type CustomerRank struct {
	CustomerID int64
	Name       string
	Purchases  int
	Spent      float64
}

// ProductRank is a product's sales or ticket volume.
type ProductRank struct {
	ProductID int64
	Name      string
	Count     int
	Revenue   float64
}

func rankCustomers(sales []domain.SalesTransaction, names map[int64]string) []CustomerRank {
	byID := make(map[int64]*CustomerRank)
	for _, s := range sales {
		name, ok := names[s.CustomerID]
		if !ok {
			continue
		}
		r, ok := byID[s.CustomerID]
		if !ok {
			r = &CustomerRank{CustomerID: s.CustomerID, Name: name}
			byID[s.CustomerID] = r
		}
		r.Purchases++
		r.Spent += s.SaleAmount
	}
	out := make([]CustomerRank, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	return out
}

// RankCustomersBySpend returns up to limit known customers ordered by total
// spent, highest first, ties by customer ID.
func RankCustomersBySpend(sales []domain.SalesTransaction, names map[int64]string, limit int) []CustomerRank {
	ranks := rankCustomers(sales, names)
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Spent != ranks[j].Spent {
			return ranks[i].Spent > ranks[j].Spent
		}
		return ranks[i].CustomerID < ranks[j].CustomerID
	})
	return headOf(ranks, limit)
}

// RepeatBuyers returns up to limit known customers with more than one
// purchase in sales, ordered by purchase count, highest first, ties by
// customer ID.
func RepeatBuyers(sales []domain.SalesTransaction, names map[int64]string, limit int) []CustomerRank {
	ranks := rankCustomers(sales, names)
	out := ranks[:0]
	for _, r := range ranks {
		if r.Purchases >= repeatBuyerMin {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Purchases != out[j].Purchases {
			return out[i].Purchases > out[j].Purchases
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return headOf(out, limit)
}

// BestSellingProduct returns the catalog product with the highest revenue.
// ok is false when no sale refers to a known product.
func BestSellingProduct(sales []domain.SalesTransaction, names map[int64]string) (ProductRank, bool) {
	byID := make(map[int64]*ProductRank)
	for _, s := range sales {
		name, ok := names[s.ProductID]
		if !ok {
			continue
		}
		r, ok := byID[s.ProductID]
		if !ok {
			r = &ProductRank{ProductID: s.ProductID, Name: name}
			byID[s.ProductID] = r
		}
		r.Count++
		r.Revenue += s.SaleAmount
	}
	return topProduct(byID, func(a, b *ProductRank) bool { return a.Revenue > b.Revenue })
}

// MostProblematicProduct returns the catalog product with the most support
// tickets. ok is false when no ticket refers to a known product.
func MostProblematicProduct(tickets []domain.SupportTicket, names map[int64]string) (ProductRank, bool) {
	byID := make(map[int64]*ProductRank)
	for _, t := range tickets {
		name, ok := names[t.ProductID]
		if !ok {
			continue
		}
		r, ok := byID[t.ProductID]
		if !ok {
			r = &ProductRank{ProductID: t.ProductID, Name: name}
			byID[t.ProductID] = r
		}
		r.Count++
	}
	return topProduct(byID, func(a, b *ProductRank) bool { return a.Count > b.Count })
}

// topProduct picks the entry for which better holds against every other,
// the lowest product ID winning ties.
func topProduct(byID map[int64]*ProductRank, better func(a, b *ProductRank) bool) (ProductRank, bool) {
	var best *ProductRank
	for _, r := range byID {
		if best == nil || better(r, best) || (!better(best, r) && r.ProductID < best.ProductID) {
			best = r
		}
	}
	if best == nil {
		return ProductRank{}, false
	}
	return *best, true
}

// CountJoinedIn counts customers whose join date falls in the calendar
// month of now.
func CountJoinedIn(customers []domain.Customer, now time.Time) int {
	month := MonthKey(now)
	n := 0
	for _, c := range customers {
		if !c.JoinDate.IsZero() && MonthKey(c.JoinDate) == month {
			n++
		}
	}
	return n
}

// MeanSalesPrice averages the list price of the catalog, 0 when empty.
func MeanSalesPrice(products []domain.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.SalesPrice
	}
	return stat.Mean(prices, nil)
}

func headOf[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
