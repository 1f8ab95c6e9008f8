package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/reports"
)

//
// --- Dashboard Stats ---
//
// Each endpoint is an independent read-and-reduce pass over the store,
// recomputed on every request. Nothing here is cached.
//

type InventoryStats struct {
	TotalItems   int     `json:"totalItems"`   // distinct stock rows
	TotalInStock int     `json:"totalInStock"` // sum of quantities on hand
	TotalValue   float64 `json:"totalValue"`   // sum of quantity * USD cost
}

// GetInventoryStats returns KPI data for the dashboard header cards.
// GET /v1/dashboard/inventory
func (h *Handlers) GetInventoryStats(c *gin.Context) {
	stats := InventoryStats{}

	// COALESCE(..., 0) so an empty table reads as 0 instead of NULL.
	query := `
		SELECT COUNT(*), COALESCE(SUM(stock), 0), COALESCE(SUM(stock * precio_usd), 0)
		FROM stock
	`
	err := h.DB.QueryRow(query).Scan(&stats.TotalItems, &stats.TotalInStock, &stats.TotalValue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate inventory stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDailySales returns the 7-day sales series for the bar chart, plus
// the binary trend indicator.
// GET /v1/dashboard/daily-sales
func (h *Handlers) GetDailySales(c *gin.Context) {
	now := time.Now()
	since := now.AddDate(0, 0, -7)

	rows, err := h.DB.Query("SELECT date, total FROM ventas WHERE date >= ?", since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	defer rows.Close()

	var sales []reports.SaleTotal
	for rows.Next() {
		var s reports.SaleTotal
		if err := rows.Scan(&s.Date, &s.Total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan sale"})
			return
		}
		sales = append(sales, s)
	}

	series := reports.DailySeries(now, sales)

	c.JSON(http.StatusOK, gin.H{
		"series": series,
		"trend":  reports.Trend(series),
	})
}

// GetYearSales returns the year-to-date sales total.
// GET /v1/dashboard/year-sales
func (h *Handlers) GetYearSales(c *gin.Context) {
	now := time.Now()
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	startOfNextYear := startOfYear.AddDate(1, 0, 0)

	var total float64
	err := h.DB.QueryRow(
		"SELECT COALESCE(SUM(total), 0) FROM ventas WHERE date >= ? AND date < ?",
		startOfYear, startOfNextYear,
	).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate year sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  now.Year(),
		"total": total,
	})
}

// GetCategoryCounts returns the top 6 categories by stock-document count.
// GET /v1/dashboard/category-counts
func (h *Handlers) GetCategoryCounts(c *gin.Context) {
	rows, err := h.DB.Query("SELECT categoria, COUNT(*) FROM stock WHERE categoria <> '' GROUP BY categoria")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count categories"})
		return
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var categoria string
		var count int
		if err := rows.Scan(&categoria, &count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category count"})
			return
		}
		counts[categoria] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": reports.TopCategories(counts, 6),
	})
}
