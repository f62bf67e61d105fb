package insights

import (
	"fmt"
	"time"
)

const (
	// LowSentimentCutoff is the sentiment below which a ticket, or a
	// customer's average, reads as negative.
	LowSentimentCutoff = 0.4

	lowSentimentMinTickets = 3

	// ChurnWindow is the trailing window compared against lifetime purchases.
	ChurnWindow = 30 * 24 * time.Hour

	churnActivityRatio = 0.25
)

// Rule identifies a heuristic insight.
type Rule string

const (
	RuleLowSentiment       Rule = "low_sentiment"
	RuleChurnRisk          Rule = "churn_risk"
	RuleHighMarginAffinity Rule = "high_margin_affinity"
)

// Insight is a human-readable finding produced by one rule.
type Insight struct {
	Rule    Rule
	Message string
}

// CustomerSignals are the already-computed inputs of the insight rules.
type CustomerSignals struct {
	Support         SupportStats
	Purchases       int
	RecentPurchases int    // purchases inside ChurnWindow
	TopCategory     string // empty when no high-margin category
}

// GenerateInsights evaluates every rule in a fixed order. Rules are
// independent: any subset, including none, may fire.
func GenerateInsights(sig CustomerSignals) []Insight {
	out := make([]Insight, 0, 3)

	if avg, ok := sig.Support.MeanSentiment(); ok &&
		avg < LowSentimentCutoff && sig.Support.Count > lowSentimentMinTickets {
		out = append(out, Insight{
			Rule:    RuleLowSentiment,
			Message: "Customer has a high volume of low sentiment support tickets.",
		})
	}

	if sig.Purchases > 0 &&
		float64(sig.RecentPurchases) < float64(sig.Purchases)*churnActivityRatio {
		out = append(out, Insight{
			Rule:    RuleChurnRisk,
			Message: "Risk of churn detected based on recent activity drop.",
		})
	}

	if sig.TopCategory != "" {
		out = append(out, Insight{
			Rule:    RuleHighMarginAffinity,
			Message: fmt.Sprintf("Frequently purchases high-margin products in '%s'.", sig.TopCategory),
		})
	}

	return out
}
