package insights

import (
	"testing"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowTickets(n int, sentiment float64) []domain.SupportTicket {
	out := make([]domain.SupportTicket, n)
	for i := range out {
		out[i] = ticket(1, 1, "open", sentiment, "2024-01-01")
	}
	return out
}

func rules(insights []Insight) []Rule {
	out := make([]Rule, len(insights))
	for i, in := range insights {
		out[i] = in.Rule
	}
	return out
}

func TestGenerateInsights(t *testing.T) {
	tests := []struct {
		name string
		sig  CustomerSignals
		want []Rule
	}{
		{
			name: "nothing fires for a quiet customer",
			sig:  CustomerSignals{},
			want: []Rule{},
		},
		{
			name: "low sentiment needs more than three tickets",
			sig:  CustomerSignals{Support: SummarizeSupport(lowTickets(3, 0.1))},
			want: []Rule{},
		},
		{
			name: "low sentiment",
			sig:  CustomerSignals{Support: SummarizeSupport(lowTickets(4, 0.1))},
			want: []Rule{RuleLowSentiment},
		},
		{
			name: "many tickets with a fair average",
			sig:  CustomerSignals{Support: SummarizeSupport(lowTickets(5, 0.6))},
			want: []Rule{},
		},
		{
			name: "churn risk",
			sig:  CustomerSignals{Purchases: 8, RecentPurchases: 1},
			want: []Rule{RuleChurnRisk},
		},
		{
			name: "a quarter of purchases in the window is active",
			sig:  CustomerSignals{Purchases: 8, RecentPurchases: 2},
			want: []Rule{},
		},
		{
			name: "all rules in fixed order",
			sig: CustomerSignals{
				Support:     SummarizeSupport(lowTickets(6, 0.2)),
				Purchases:   10,
				TopCategory: "Electronics",
			},
			want: []Rule{RuleLowSentiment, RuleChurnRisk, RuleHighMarginAffinity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules(GenerateInsights(tt.sig)))
		})
	}
}

func TestGenerateInsights_Messages(t *testing.T) {
	got := GenerateInsights(CustomerSignals{
		Support:     SummarizeSupport(lowTickets(4, 0.0)),
		Purchases:   4,
		TopCategory: "Office Supplies",
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Customer has a high volume of low sentiment support tickets.", got[0].Message)
	assert.Equal(t, "Risk of churn detected based on recent activity drop.", got[1].Message)
	assert.Equal(t, "Frequently purchases high-margin products in 'Office Supplies'.", got[2].Message)
}

func TestTopHighMarginCategory(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Category: "Beta", CostPrice: 100, SalesPrice: 700},
		{ID: 2, Category: "Alpha", CostPrice: 100, SalesPrice: 800},
		{ID: 3, Category: "Gamma", CostPrice: 100, SalesPrice: 200},
		{ID: 4, Category: "Gamma", CostPrice: 100, SalesPrice: 300},
		{ID: 5, Category: "Delta", CostPrice: 100, SalesPrice: 600}, // margin exactly 500
	}

	cat, ok := TopHighMarginCategory(products)
	require.True(t, ok)
	assert.Equal(t, "Alpha", cat, "ties resolve to the lexically smallest category")

	// product 1 repeated still counts once
	cat, ok = TopHighMarginCategory(append(products, products[0], products[0]))
	require.True(t, ok)
	assert.Equal(t, "Alpha", cat)

	products = append(products, domain.Product{ID: 6, Category: "Beta", CostPrice: 0, SalesPrice: 900})
	cat, _ = TopHighMarginCategory(products)
	assert.Equal(t, "Beta", cat)

	_, ok = TopHighMarginCategory(products[2:5])
	assert.False(t, ok)
}

func TestDistinctProductIDs(t *testing.T) {
	got := DistinctProductIDs([]domain.SalesTransaction{
		sale(1, 5, 1, "2024-01-01"),
		sale(1, 2, 1, "2024-01-01"),
		sale(2, 5, 1, "2024-01-01"),
	})

	assert.Equal(t, []int64{2, 5}, got)
}
