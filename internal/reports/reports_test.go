package reports

import (
	"testing"
	"time"
)

func TestDailySeriesSingleSale(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	sales := []SaleTotal{
		{Date: now.AddDate(0, 0, -3), Total: 120},
	}

	series := DailySeries(now, sales)

	if len(series) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i-1].Date >= series[i].Date {
			t.Fatalf("series not sorted ascending: %q before %q", series[i-1].Date, series[i].Date)
		}
	}

	zeros, nonZero := 0, 0
	for _, day := range series {
		switch day.Sales {
		case 0:
			zeros++
		case 120:
			nonZero++
			if day.Date != "2026-03-07" {
				t.Fatalf("sale landed on %q, want 2026-03-07", day.Date)
			}
		default:
			t.Fatalf("unexpected total %v on %q", day.Sales, day.Date)
		}
	}
	if zeros != 6 || nonZero != 1 {
		t.Fatalf("expected six zeros and one 120, got %d zeros, %d sales", zeros, nonZero)
	}
}

func TestDailySeriesDropsSalesOutsideWindow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	sales := []SaleTotal{
		{Date: now.AddDate(0, 0, -8), Total: 999},
		{Date: now, Total: 50},
		{Date: now.Add(-time.Hour), Total: 25},
	}

	series := DailySeries(now, sales)

	if len(series) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(series))
	}
	last := series[len(series)-1]
	if last.Sales != 75 {
		t.Fatalf("expected today's bucket to hold 75, got %v", last.Sales)
	}
	var sum float64
	for _, day := range series {
		sum += day.Sales
	}
	if sum != 75 {
		t.Fatalf("sale outside the window leaked in: total %v", sum)
	}
}

func TestTrend(t *testing.T) {
	up := []DailySales{{Date: "a", Sales: 10}, {Date: "b", Sales: 20}}
	if got := Trend(up); got != TrendUp {
		t.Fatalf("expected up, got %q", got)
	}
	down := []DailySales{{Date: "a", Sales: 20}, {Date: "b", Sales: 10}}
	if got := Trend(down); got != TrendDown {
		t.Fatalf("expected down, got %q", got)
	}
	// Equal totals read as down: the indicator is binary.
	flat := []DailySales{{Date: "a", Sales: 10}, {Date: "b", Sales: 10}}
	if got := Trend(flat); got != TrendDown {
		t.Fatalf("expected down for flat series, got %q", got)
	}
	if got := Trend(nil); got != TrendDown {
		t.Fatalf("expected down for empty series, got %q", got)
	}
}

func TestTopCategoriesTruncatesAndBreaksTies(t *testing.T) {
	counts := map[string]int{
		"A": 5, "B": 5, "C": 3, "D": 3, "E": 2, "F": 2, "G": 1,
	}

	top := TopCategories(counts, 6)

	if len(top) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(top))
	}
	for _, entry := range top {
		if entry.Category == "G" {
			t.Fatalf("G should have been truncated out")
		}
	}

	want := []CategoryCount{
		{"A", 5}, {"B", 5}, {"C", 3}, {"D", 3}, {"E", 2}, {"F", 2},
	}
	for i, entry := range top {
		if entry != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestTopCategoriesShortList(t *testing.T) {
	top := TopCategories(map[string]int{"LIBROS": 2}, 6)
	if len(top) != 1 || top[0].Category != "LIBROS" || top[0].Count != 2 {
		t.Fatalf("unexpected result: %+v", top)
	}
}
