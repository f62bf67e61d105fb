package insights

import (
	"maps"
	"slices"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
)

// DefaultTrendThreshold is the fractional change that marks a trend.
const DefaultTrendThreshold = 0.5

// trendWindowMonths is how many months before the latest one form the
// trailing average.
const trendWindowMonths = 3

// UnknownProductName labels trends whose product row is missing.
const UnknownProductName = "Unknown"

// Direction is the sign of a trend.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
)

// Trend is a product whose latest month moved away from its trailing average.
type Trend struct {
	ProductID   int64
	ProductName string
	Direction   Direction
	Change      float64 // signed fraction, two decimals
}

// DetectTrends compares each product's sales in the dataset's latest month
// with its average over the three months before it. Products without data
// in those months, or whose trailing average is zero, are skipped; changes
// smaller than threshold in magnitude are not reported. Both slices are
// ordered by product ID.
func DetectTrends(sales []domain.SalesTransaction, names map[int64]string, threshold float64) (rising, falling []Trend) {
	rising, falling = []Trend{}, []Trend{}

	monthly := make(map[int64]map[string]float64)
	var latest time.Time
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		month := monthStart(s.Date)
		if month.After(latest) {
			latest = month
		}
		byMonth, ok := monthly[s.ProductID]
		if !ok {
			byMonth = make(map[string]float64)
			monthly[s.ProductID] = byMonth
		}
		byMonth[MonthKey(month)] += s.SaleAmount
	}
	if latest.IsZero() {
		return rising, falling
	}

	recentMonth := MonthKey(latest)
	prevMonths := make([]string, 0, trendWindowMonths)
	for i := 1; i <= trendWindowMonths; i++ {
		prevMonths = append(prevMonths, MonthKey(latest.AddDate(0, -i, 0)))
	}

	for _, id := range slices.Sorted(maps.Keys(monthly)) {
		byMonth := monthly[id]
		recent := byMonth[recentMonth]

		var sum float64
		present := 0
		for _, m := range prevMonths {
			if v, ok := byMonth[m]; ok {
				sum += v
				present++
			}
		}
		if present == 0 {
			continue
		}
		pastAvg := sum / float64(present)
		if pastAvg == 0 {
			continue
		}

		change := (recent - pastAvg) / pastAvg
		name, ok := names[id]
		if !ok {
			name = UnknownProductName
		}
		t := Trend{ProductID: id, ProductName: name, Change: Round2(change)}
		switch {
		case change >= threshold:
			t.Direction = Increasing
			rising = append(rising, t)
		case change <= -threshold:
			t.Direction = Decreasing
			falling = append(falling, t)
		}
	}
	return rising, falling
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
