// Package reports holds the dashboard aggregation math. Handlers query
// raw rows and reduce them here, so the bucketing and ranking rules can
// be tested without a database.
package reports

import (
	"sort"
	"time"
)

// dateKey is the local calendar-day key every sale is bucketed under.
const dateKey = "2006-01-02"

// SaleTotal is one venta row as the dashboard reads it.
type SaleTotal struct {
	Date  time.Time
	Total float64
}

// DailySales is one entry of the 7-day sales series.
type DailySales struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// CategoryCount is one entry of the category ranking.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Trend labels for the 7-day series.
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// DailySeries buckets sale totals into the last 7 calendar days ending
// at now. All 7 buckets exist even with no sales; sales outside the
// window are dropped. The result is sorted ascending by date string.
func DailySeries(now time.Time, sales []SaleTotal) []DailySales {
	byDay := make(map[string]float64, 7)
	for i := 0; i < 7; i++ {
		byDay[now.AddDate(0, 0, -i).Format(dateKey)] = 0
	}

	for _, s := range sales {
		key := s.Date.Format(dateKey)
		if _, ok := byDay[key]; ok {
			byDay[key] += s.Total
		}
	}

	series := make([]DailySales, 0, len(byDay))
	for date, total := range byDay {
		series = append(series, DailySales{Date: date, Sales: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// Trend compares the last day of the series against the first. It is
// deliberately binary: equal totals read as down.
func Trend(series []DailySales) string {
	if len(series) == 0 {
		return TrendDown
	}
	if series[len(series)-1].Sales > series[0].Sales {
		return TrendUp
	}
	return TrendDown
}

// TopCategories ranks categories by stock-document count, descending,
// truncated to limit. Ties break alphabetically so the ranking is
// stable across runs.
func TopCategories(counts map[string]int, limit int) []CategoryCount {
	ranked := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		ranked = append(ranked, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
