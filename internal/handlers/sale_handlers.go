package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/models"
)

//
// --- Venta Handlers ---
//

// SaleLineInput is one cart line at commit time. SKU and producto are
// snapshots taken when the line was added; the venta stores them as-is
// so later stock edits never rewrite sales history.
type SaleLineInput struct {
	StockID     int64   `json:"stockId" binding:"required"`
	SKU         string  `json:"sku"`
	Producto    string  `json:"producto"`
	Cantidad    int     `json:"cantidad" binding:"required,min=1"`
	PrecioVenta float64 `json:"precioVenta" binding:"gte=0"`
}

// RegisterSaleInput is the payload for POST /v1/ventas
type RegisterSaleInput struct {
	Items []SaleLineInput `json:"items" binding:"required,min=1,dive"`
}

// RegisterSale is the handler for POST /v1/ventas
// It writes the venta and decrements stock for every line inside one
// transaction. The decrement is conditional (stock >= cantidad), so a
// concurrent sale of the same item makes this one fail with 409 instead
// of driving the quantity negative.
func (h *Handlers) RegisterSale(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	var input RegisterSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	now := time.Now()
	var total float64
	for _, line := range input.Items {
		total += line.PrecioVenta * float64(line.Cantidad)
	}

	result, err := tx.Exec(
		"INSERT INTO ventas (user_id, date, total) VALUES (?, ?, ?)",
		userID, now, total,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venta"})
		return
	}
	ventaID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new venta ID"})
		return
	}

	itemQuery := `
		INSERT INTO venta_items (venta_id, sku, producto, cantidad, precio_venta)
		VALUES (?, ?, ?, ?, ?)`
	stockQuery := "UPDATE stock SET stock = stock - ? WHERE id = ? AND stock >= ?"

	for _, line := range input.Items {
		if _, err := tx.Exec(itemQuery, ventaID, line.SKU, line.Producto, line.Cantidad, line.PrecioVenta); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save venta item"})
			return
		}

		res, err := tx.Exec(stockQuery, line.Cantidad, line.StockID, line.Cantidad)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduct stock"})
			return
		}
		affected, err := res.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduct stock"})
			return
		}
		if affected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Not enough stock for item %d", line.StockID)})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Venta registered successfully",
		"ventaId": ventaID,
		"total":   total,
	})
}

// GetMyVentas is the handler for GET /v1/ventas
// Returns the authenticated user's sales, newest first, with line items.
func (h *Handlers) GetMyVentas(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	rows, err := h.DB.Query(
		"SELECT id, user_id, date, total FROM ventas WHERE user_id = ? ORDER BY date DESC",
		userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ventas"})
		return
	}
	defer rows.Close()

	var ventas []models.Venta
	for rows.Next() {
		var v models.Venta
		if err := rows.Scan(&v.ID, &v.UserID, &v.Date, &v.Total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan venta"})
			return
		}
		ventas = append(ventas, v)
	}

	for i := range ventas {
		items, err := h.fetchVentaItems(ventas[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venta items"})
			return
		}
		ventas[i].Items = items
	}

	if ventas == nil {
		ventas = []models.Venta{}
	}

	c.JSON(http.StatusOK, gin.H{"ventas": ventas})
}

func (h *Handlers) fetchVentaItems(ventaID int64) ([]models.VentaItem, error) {
	rows, err := h.DB.Query(
		"SELECT id, venta_id, sku, producto, cantidad, precio_venta FROM venta_items WHERE venta_id = ?",
		ventaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.VentaItem{}
	for rows.Next() {
		var item models.VentaItem
		if err := rows.Scan(&item.ID, &item.VentaID, &item.SKU, &item.Producto, &item.Cantidad, &item.PrecioVenta); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
