package insights

import (
	"slices"

	"github.com/boddenberg/retail-insights/internal/domain"
)

// HighMarginThreshold is the unit margin a product must exceed to count
// towards a customer's high-margin category affinity.
const HighMarginThreshold = 500.0

// DistinctProductIDs returns the product IDs present in sales, ascending.
func DistinctProductIDs(sales []domain.SalesTransaction) []int64 {
	seen := make(map[int64]struct{}, len(sales))
	ids := make([]int64, 0, len(sales))
	for _, s := range sales {
		if _, ok := seen[s.ProductID]; ok {
			continue
		}
		seen[s.ProductID] = struct{}{}
		ids = append(ids, s.ProductID)
	}
	slices.Sort(ids)
	return ids
}

// TopHighMarginCategory returns the most common category among the given
// purchased products whose margin exceeds HighMarginThreshold. Each product
// counts once. Equal counts resolve to the lexically smallest category.
// ok is false when no product clears the threshold.
func TopHighMarginCategory(purchased []domain.Product) (category string, ok bool) {
	seen := make(map[int64]struct{}, len(purchased))
	counts := make(map[string]int)
	for _, p := range purchased {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		if p.Margin() > HighMarginThreshold {
			counts[p.Category]++
		}
	}

	best := 0
	for cat, n := range counts {
		if n > best || (n == best && cat < category) {
			category, best = cat, n
		}
	}
	return category, best > 0
}
