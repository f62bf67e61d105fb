package insights

import (
	"maps"
	"slices"
	"sort"

	"github.com/boddenberg/retail-insights/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// DefaultZThreshold is the z-score a customer must exceed to be flagged.
const DefaultZThreshold = 2.0

// minAnomalyPopulation is the smallest population with a meaningful z-score.
const minAnomalyPopulation = 2

// Anomaly is a customer with an outlying number of negative tickets.
type Anomaly struct {
	CustomerID      int64
	CustomerName    string
	NegativeTickets int
	ZScore          float64
}

// NegativeTicketCounts counts tickets with sentiment below
// LowSentimentCutoff per customer. Every customer present in names with at
// least one ticket appears in the result, possibly with a zero count.
func NegativeTicketCounts(tickets []domain.SupportTicket, names map[int64]string) map[int64]int {
	counts := make(map[int64]int)
	for _, t := range tickets {
		if _, ok := names[t.CustomerID]; !ok {
			continue
		}
		n := counts[t.CustomerID]
		if t.SentimentScore < LowSentimentCutoff {
			n++
		}
		counts[t.CustomerID] = n
	}
	return counts
}

// DetectAnomalies flags customers whose negative-ticket count has a
// population z-score above zThreshold, highest first. The population is
// every known customer with at least one ticket. Populations smaller than
// two, or with zero spread, produce no anomalies.
func DetectAnomalies(tickets []domain.SupportTicket, names map[int64]string, zThreshold float64) []Anomaly {
	anomalies := []Anomaly{}

	counts := NegativeTicketCounts(tickets, names)
	if len(counts) < minAnomalyPopulation {
		return anomalies
	}

	ids := slices.Sorted(maps.Keys(counts))
	xs := make([]float64, len(ids))
	for i, id := range ids {
		xs[i] = float64(counts[id])
	}

	mean, std := stat.PopMeanStdDev(xs, nil)
	if std == 0 {
		return anomalies
	}

	for i, id := range ids {
		z := stat.StdScore(xs[i], mean, std)
		if z > zThreshold {
			anomalies = append(anomalies, Anomaly{
				CustomerID:      id,
				CustomerName:    names[id],
				NegativeTickets: counts[id],
				ZScore:          z,
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})
	return anomalies
}
