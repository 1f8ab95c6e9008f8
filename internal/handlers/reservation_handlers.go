package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/models"
)

//
// --- Reserva Handlers ---
//
// A reservation holds stock the moment it is created. It ends one of
// two ways: confirm (the hold becomes a venta, stock stays deducted) or
// cancel (the hold is released, stock comes back). Either way the
// reservation row is deleted, so there is nothing to edit afterwards.
//

// CreateReservation is the handler for POST /v1/reservas
// Same transactional stock decrement as RegisterSale, but the cart is
// written to 'reservas' with status "pendiente" instead of 'ventas'.
func (h *Handlers) CreateReservation(c *gin.Context) {
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

	result, err := tx.Exec(
		"INSERT INTO reservas (user_id, date, status) VALUES (?, ?, ?)",
		userID, time.Now(), models.ReservaStatusPendiente,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reserva"})
		return
	}
	reservaID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new reserva ID"})
		return
	}

	itemQuery := `
		INSERT INTO reserva_items (reserva_id, stock_id, sku, producto, cantidad, precio_venta)
		VALUES (?, ?, ?, ?, ?, ?)`
	stockQuery := "UPDATE stock SET stock = stock - ? WHERE id = ? AND stock >= ?"

	for _, line := range input.Items {
		if _, err := tx.Exec(itemQuery, reservaID, line.StockID, line.SKU, line.Producto, line.Cantidad, line.PrecioVenta); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reserva item"})
			return
		}

		res, err := tx.Exec(stockQuery, line.Cantidad, line.StockID, line.Cantidad)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hold stock"})
			return
		}
		affected, err := res.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hold stock"})
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
		"message":   "Reserva created successfully",
		"reservaId": reservaID,
	})
}

// GetMyReservations is the handler for GET /v1/reservas
func (h *Handlers) GetMyReservations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	rows, err := h.DB.Query(
		"SELECT id, user_id, date, status FROM reservas WHERE user_id = ? ORDER BY date DESC",
		userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservas"})
		return
	}
	defer rows.Close()

	var reservas []models.Reserva
	for rows.Next() {
		var r models.Reserva
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan reserva"})
			return
		}
		reservas = append(reservas, r)
	}

	for i := range reservas {
		items, err := fetchReservaItems(h.DB, reservas[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reserva items"})
			return
		}
		reservas[i].Items = items
	}

	if reservas == nil {
		reservas = []models.Reserva{}
	}

	c.JSON(http.StatusOK, gin.H{"reservas": reservas})
}

// ReservaItemUpdate edits one held line: new quantity and/or price.
type ReservaItemUpdate struct {
	ItemID      int64   `json:"itemId" binding:"required"`
	Cantidad    int     `json:"cantidad" binding:"required,min=1"`
	PrecioVenta float64 `json:"precioVenta" binding:"gte=0"`
}

// UpdateReservationInput is the payload for PUT /v1/reservas/:id
type UpdateReservationInput struct {
	Items []ReservaItemUpdate `json:"items" binding:"required,min=1,dive"`
}

// UpdateReservation is the handler for PUT /v1/reservas/:id
// Editing a held quantity re-adjusts the stock hold by the difference:
// raising a line from 2 to 5 takes 3 more units off the shelf (or fails
// with 409 if they are gone), lowering it gives units back.
func (h *Handlers) UpdateReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}
	reservaID := c.Param("id")

	var input UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	if !h.reservaBelongsToUser(c, tx, reservaID, userID) {
		return
	}

	for _, update := range input.Items {
		var stockID int64
		var held int
		err := tx.QueryRow(
			"SELECT stock_id, cantidad FROM reserva_items WHERE id = ? AND reserva_id = ?",
			update.ItemID, reservaID,
		).Scan(&stockID, &held)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Reserva item %d not found", update.ItemID)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reserva item"})
			return
		}

		delta := update.Cantidad - held
		if delta > 0 {
			res, err := tx.Exec(
				"UPDATE stock SET stock = stock - ? WHERE id = ? AND stock >= ?",
				delta, stockID, delta,
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hold stock"})
				return
			}
			if affected, err := res.RowsAffected(); err == nil && affected == 0 {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Not enough stock for item %d", stockID)})
				return
			}
		} else if delta < 0 {
			if _, err := tx.Exec("UPDATE stock SET stock = stock + ? WHERE id = ?", -delta, stockID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release stock"})
				return
			}
		}

		if _, err := tx.Exec(
			"UPDATE reserva_items SET cantidad = ?, precio_venta = ? WHERE id = ?",
			update.Cantidad, update.PrecioVenta, update.ItemID,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reserva item"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reserva updated successfully"})
}

// CancelReservation is the handler for POST /v1/reservas/:id/cancel
// Restores the held quantity of every line and deletes the reservation.
func (h *Handlers) CancelReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}
	reservaID := c.Param("id")

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	if !h.reservaBelongsToUser(c, tx, reservaID, userID) {
		return
	}

	items, err := fetchReservaItems(tx, reservaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reserva items"})
		return
	}

	for _, item := range items {
		if _, err := tx.Exec("UPDATE stock SET stock = stock + ? WHERE id = ?", item.Cantidad, item.StockID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore stock"})
			return
		}
	}

	if err := h.deleteReserva(tx, reservaID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reserva"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reserva cancelled successfully"})
}

// ConfirmReservation is the handler for POST /v1/reservas/:id/confirm
// The stock was already deducted when the hold was created, so this
// only converts the lines into a venta and deletes the reservation.
func (h *Handlers) ConfirmReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}
	reservaID := c.Param("id")

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	if !h.reservaBelongsToUser(c, tx, reservaID, userID) {
		return
	}

	items, err := fetchReservaItems(tx, reservaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reserva items"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Reserva has no items"})
		return
	}

	now := time.Now()
	var total float64
	for _, item := range items {
		total += item.PrecioVenta * float64(item.Cantidad)
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
	for _, item := range items {
		if _, err := tx.Exec(itemQuery, ventaID, item.SKU, item.Producto, item.Cantidad, item.PrecioVenta); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save venta item"})
			return
		}
	}

	if err := h.deleteReserva(tx, reservaID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reserva"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reserva confirmed and registered as venta",
		"ventaId": ventaID,
		"total":   total,
	})
}

//
// --- Shared helpers ---
//

// reservaBelongsToUser verifies the reservation exists, is pending, and
// is owned by the caller. On failure it writes the response and returns
// false so the handler can bail out.
func (h *Handlers) reservaBelongsToUser(c *gin.Context, tx *sql.Tx, reservaID string, userID int64) bool {
	var ownerID int64
	var status string
	err := tx.QueryRow("SELECT user_id, status FROM reservas WHERE id = ?", reservaID).Scan(&ownerID, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reserva not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reserva"})
		return false
	}
	if ownerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reserva not found"})
		return false
	}
	if status != models.ReservaStatusPendiente {
		c.JSON(http.StatusConflict, gin.H{"error": "Reserva is not pending"})
		return false
	}
	return true
}

// queryer lets the item fetch run on either the pool or a transaction.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func fetchReservaItems(q queryer, reservaID any) ([]models.ReservaItem, error) {
	rows, err := q.Query(
		"SELECT id, reserva_id, stock_id, sku, producto, cantidad, precio_venta FROM reserva_items WHERE reserva_id = ?",
		reservaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ReservaItem{}
	for rows.Next() {
		var item models.ReservaItem
		if err := rows.Scan(&item.ID, &item.ReservaID, &item.StockID, &item.SKU, &item.Producto, &item.Cantidad, &item.PrecioVenta); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (h *Handlers) deleteReserva(tx *sql.Tx, reservaID string) error {
	if _, err := tx.Exec("DELETE FROM reserva_items WHERE reserva_id = ?", reservaID); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM reservas WHERE id = ?", reservaID)
	return err
}
