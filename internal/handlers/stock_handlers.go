package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/models"
	"github.com/jmcampos/libreria-api/internal/pricing"
)

//
// --- Stock Handlers ---
//

// StockItemInput is the payload for creating or overwriting a stock item.
type StockItemInput struct {
	SKU       string  `json:"sku" binding:"required"`
	Producto  string  `json:"producto" binding:"required"`
	Autor     string  `json:"autor"`
	Categoria string  `json:"categoria"`
	PrecioUSD float64 `json:"precioUSD" binding:"gte=0"`
	Stock     int     `json:"stock" binding:"gte=0"`
	Estante   int     `json:"estante"`
}

// CreateStockItem is the handler for POST /v1/stock
func (h *Handlers) CreateStockItem(c *gin.Context) {
	var input StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		INSERT INTO stock (sku, producto, autor, categoria, precio_usd, stock, estante, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		input.SKU, input.Producto, input.Autor, input.Categoria,
		input.PrecioUSD, input.Stock, input.Estante, time.Now(),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new stock item ID"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock item created successfully",
		"id":      id,
	})
}

// UpdateStockItem is the handler for PUT /v1/stock/:id
// It overwrites every editable field, matching the edit form which
// always submits the full record.
func (h *Handlers) UpdateStockItem(c *gin.Context) {
	itemID := c.Param("id")

	var input StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		UPDATE stock
		SET sku = ?, producto = ?, autor = ?, categoria = ?, precio_usd = ?, stock = ?, estante = ?
		WHERE id = ?`
	result, err := h.DB.Exec(query,
		input.SKU, input.Producto, input.Autor, input.Categoria,
		input.PrecioUSD, input.Stock, input.Estante, itemID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock item"})
		return
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		// Distinguish "no such row" from "row already had these values".
		var exists int
		if scanErr := h.DB.QueryRow("SELECT COUNT(*) FROM stock WHERE id = ?", itemID).Scan(&exists); scanErr == nil && exists == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock item updated successfully"})
}

// DeleteStockItem is the handler for DELETE /v1/stock/:id
func (h *Handlers) DeleteStockItem(c *gin.Context) {
	itemID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM stock WHERE id = ?", itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock item"})
		return
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted successfully"})
}

// StockSearchRow is a stock item plus the peso prices derived from the
// session exchange rate, so the sales screen can quote without doing
// its own math.
type StockSearchRow struct {
	models.StockItem
	Efectivo float64 `json:"efectivo"`
	Tarjeta  float64 `json:"tarjeta"`
}

// SearchStock is the handler for GET /v1/stock/search?field=sku&q=...
// Results are capped at 10 rows; with no search term it returns the 10
// most recently added items.
func (h *Handlers) SearchStock(c *gin.Context) {
	field, err := models.ParseSearchField(c.Query("field"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	term := strings.ToLower(strings.TrimSpace(c.Query("q")))

	var rows *sql.Rows
	baseSelect := "SELECT id, sku, producto, autor, categoria, precio_usd, stock, estante, created_at FROM stock"
	if term == "" {
		rows, err = h.DB.Query(baseSelect + " ORDER BY id DESC LIMIT 10")
	} else {
		// field.Column() comes from a fixed table, never from the request.
		rows, err = h.DB.Query(
			baseSelect+" WHERE LOWER("+field.Column()+") LIKE ? ORDER BY id DESC LIMIT 10",
			"%"+term+"%",
		)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search stock"})
		return
	}
	defer rows.Close()

	rate := h.Rates.Rate(c.Request.Context())

	var items []StockSearchRow
	for rows.Next() {
		var item StockSearchRow
		if err := rows.Scan(
			&item.ID, &item.SKU, &item.Producto, &item.Autor, &item.Categoria,
			&item.PrecioUSD, &item.Stock, &item.Estante, &item.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan stock item"})
			return
		}
		item.Efectivo = pricing.CashPrice(item.PrecioUSD, rate)
		item.Tarjeta = pricing.CardPrice(item.Efectivo)
		items = append(items, item)
	}

	if items == nil {
		items = []StockSearchRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        items,
		"exchangeRate": rate,
	})
}

// GetCategories is the handler for GET /v1/stock/categories
// The list is the fixed set the UI offers; free-text categories are
// still accepted on write.
func (h *Handlers) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}
