package insights

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// monthLayout is the calendar-month bucket key (YYYY-MM).
const monthLayout = "2006-01"

// StatusOpen is the normalized status counted as an open issue.
const StatusOpen = "open"

// Aggregation selects how the values falling in one bucket are combined.
type Aggregation int

const (
	Sum Aggregation = iota
	Mean
)

// MonthlyPoint is one bucket of a monthly time series.
type MonthlyPoint struct {
	Period string // YYYY-MM
	Value  float64
}

// StatusCount is the number of tickets sharing a normalized status.
type StatusCount struct {
	Status string
	Count  int
}

// SalesStats is the count, sum and mean of a set of sale amounts.
type SalesStats struct {
	Count int
	Total float64
	mean  float64
}

// Mean returns the average sale amount. ok is false for an empty set.
func (s SalesStats) Mean() (mean float64, ok bool) {
	return s.mean, s.Count > 0
}

// SupportStats summarizes a set of support tickets.
type SupportStats struct {
	Count int
	Open  int
	mean  float64
}

// MeanSentiment returns the average sentiment score. ok is false for an
// empty set.
func (s SupportStats) MeanSentiment() (mean float64, ok bool) {
	return s.mean, s.Count > 0
}

// MonthKey returns the YYYY-MM bucket of t.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// NormalizeStatus trims and lowercases a ticket status before comparison.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// SummarizeSales computes count, total and mean of sale_amount.
func SummarizeSales(sales []domain.SalesTransaction) SalesStats {
	if len(sales) == 0 {
		return SalesStats{}
	}
	amounts := make([]float64, len(sales))
	for i, s := range sales {
		amounts[i] = s.SaleAmount
	}
	return SalesStats{
		Count: len(sales),
		Total: floats.Sum(amounts),
		mean:  stat.Mean(amounts, nil),
	}
}

// SummarizeSupport computes ticket count, mean sentiment and open issues.
func SummarizeSupport(tickets []domain.SupportTicket) SupportStats {
	if len(tickets) == 0 {
		return SupportStats{}
	}
	scores := make([]float64, len(tickets))
	open := 0
	for i, t := range tickets {
		scores[i] = t.SentimentScore
		if NormalizeStatus(t.Status) == StatusOpen {
			open++
		}
	}
	return SupportStats{
		Count: len(tickets),
		Open:  open,
		mean:  stat.Mean(scores, nil),
	}
}

// BucketByMonth groups rows by the calendar month of date(row) and combines
// value(row) within each month. Rows with a zero date are skipped. The
// result is ordered by month ascending.
func BucketByMonth[T any](rows []T, date func(T) time.Time, value func(T) float64, agg Aggregation) []MonthlyPoint {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		d := date(r)
		if d.IsZero() {
			continue
		}
		k := MonthKey(d)
		sums[k] += value(r)
		counts[k]++
	}

	periods := slices.Sorted(maps.Keys(sums))
	points := make([]MonthlyPoint, 0, len(periods))
	for _, p := range periods {
		v := sums[p]
		if agg == Mean {
			v /= float64(counts[p])
		}
		points = append(points, MonthlyPoint{Period: p, Value: v})
	}
	return points
}

// MonthlySales sums sale_amount per transaction month.
func MonthlySales(sales []domain.SalesTransaction) []MonthlyPoint {
	return BucketByMonth(sales,
		func(s domain.SalesTransaction) time.Time { return s.Date },
		func(s domain.SalesTransaction) float64 { return s.SaleAmount },
		Sum,
	)
}

// MonthlySentiment averages sentiment_score per ticket creation month.
func MonthlySentiment(tickets []domain.SupportTicket) []MonthlyPoint {
	return BucketByMonth(tickets,
		func(t domain.SupportTicket) time.Time { return t.CreationDate },
		func(t domain.SupportTicket) float64 { return t.SentimentScore },
		Mean,
	)
}

// StatusBreakdown counts tickets per normalized status, most frequent first.
// Equal counts are ordered by status name.
func StatusBreakdown(tickets []domain.SupportTicket) []StatusCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[NormalizeStatus(t.Status)]++
	}
	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// CountSince returns the number of transactions dated at or after cutoff.
func CountSince(sales []domain.SalesTransaction, cutoff time.Time) int {
	n := 0
	for _, s := range sales {
		if !s.Date.Before(cutoff) {
			n++
		}
	}
	return n
}

// Tail returns the last n points of a series (all of them when shorter).
func Tail(points []MonthlyPoint, n int) []MonthlyPoint {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

// SumPoints adds up the values of a series.
func SumPoints(points []MonthlyPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	return total
}
