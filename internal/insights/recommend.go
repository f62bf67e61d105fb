package insights

import (
	"sort"

	"github.com/boddenberg/retail-insights/internal/domain"
)

// DefaultRecommendationLimit is how many co-purchased products are returned
// when the caller does not ask for a specific number.
const DefaultRecommendationLimit = 5

// CoPurchase is a product bought by customers who also bought the anchor
// product, with the number of such purchases.
type CoPurchase struct {
	Product   domain.Product
	Purchases int
}

// BuyersOf returns the distinct customers with at least one purchase of
// productID.
func BuyersOf(productID int64, sales []domain.SalesTransaction) map[int64]struct{} {
	buyers := make(map[int64]struct{})
	for _, s := range sales {
		if s.ProductID == productID {
			buyers[s.CustomerID] = struct{}{}
		}
	}
	return buyers
}

// FrequentlyBoughtTogether ranks every other product bought by the buyers
// of productID by purchase count, highest first, ties by product ID.
// Products missing from catalog are dropped before the top limit are
// taken. The result is empty when nobody bought productID or its buyers
// bought nothing else.
func FrequentlyBoughtTogether(productID int64, sales []domain.SalesTransaction, catalog map[int64]domain.Product, limit int) []CoPurchase {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	out := []CoPurchase{}

	buyers := BuyersOf(productID, sales)
	if len(buyers) == 0 {
		return out
	}

	counts := make(map[int64]int)
	for _, s := range sales {
		if s.ProductID == productID {
			continue
		}
		if _, ok := buyers[s.CustomerID]; ok {
			counts[s.ProductID]++
		}
	}

	for id, n := range counts {
		p, ok := catalog[id]
		if !ok {
			continue
		}
		out = append(out, CoPurchase{Product: p, Purchases: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Purchases != out[j].Purchases {
			return out[i].Purchases > out[j].Purchases
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CoPurchasedIDs returns the products, other than productID, bought by
// productID's buyers. Callers use it to fetch only the catalog rows that
// FrequentlyBoughtTogether can return.
func CoPurchasedIDs(productID int64, sales []domain.SalesTransaction) []int64 {
	buyers := BuyersOf(productID, sales)
	var related []domain.SalesTransaction
	for _, s := range sales {
		if s.ProductID == productID {
			continue
		}
		if _, ok := buyers[s.CustomerID]; ok {
			related = append(related, s)
		}
	}
	return DistinctProductIDs(related)
}
