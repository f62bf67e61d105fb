package insights

import (
	"testing"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = map[int64]domain.Product{
	1: {ID: 1, Name: "Laptop", Category: "Electronics", CostPrice: 600, SalesPrice: 1200},
	2: {ID: 2, Name: "Dock", Category: "Electronics", CostPrice: 80, SalesPrice: 150},
	3: {ID: 3, Name: "Desk", Category: "Furniture", CostPrice: 200, SalesPrice: 450},
	4: {ID: 4, Name: "Chair", Category: "Furniture", CostPrice: 90, SalesPrice: 300},
}

func TestFrequentlyBoughtTogether_CountsBuyerPurchases(t *testing.T) {
	const a, b, c = 10, 11, 12
	sales := []domain.SalesTransaction{
		sale(a, 1, 1200, "2024-01-01"),
		sale(b, 1, 1200, "2024-01-02"),
		sale(a, 2, 150, "2024-01-03"),
		sale(a, 2, 150, "2024-05-03"),
		sale(b, 2, 150, "2024-02-01"),
		// c never bought the laptop
		sale(c, 3, 450, "2024-02-01"),
	}

	got := FrequentlyBoughtTogether(1, sales, testCatalog, DefaultRecommendationLimit)

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Product.ID)
	assert.Equal(t, "Dock", got[0].Product.Name)
	assert.Equal(t, 3, got[0].Purchases)
}

func TestFrequentlyBoughtTogether_Empty(t *testing.T) {
	sales := []domain.SalesTransaction{
		sale(10, 1, 1200, "2024-01-01"),
		sale(11, 2, 150, "2024-01-01"),
	}

	assert.Empty(t, FrequentlyBoughtTogether(3, sales, testCatalog, 5), "nobody bought the product")
	assert.Empty(t, FrequentlyBoughtTogether(1, sales, testCatalog, 5), "buyers bought nothing else")
}

func TestFrequentlyBoughtTogether_OrderingLimitAndCatalog(t *testing.T) {
	sales := []domain.SalesTransaction{
		sale(10, 1, 1, "2024-01-01"),
		sale(10, 4, 1, "2024-01-01"),
		sale(10, 3, 1, "2024-01-01"),
		sale(10, 2, 1, "2024-01-01"),
		sale(10, 2, 1, "2024-01-01"),
		sale(10, 99, 1, "2024-01-01"),
		sale(10, 99, 1, "2024-01-01"),
		sale(10, 99, 1, "2024-01-01"),
	}

	got := FrequentlyBoughtTogether(1, sales, testCatalog, 2)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Product.ID, "unknown product 99 is dropped")
	assert.Equal(t, int64(3), got[1].Product.ID, "ties resolve to the lower product id")

	assert.Equal(t, []int64{2, 3, 4, 99}, CoPurchasedIDs(1, sales))
}
