package models

import "time"

// ReservaStatusPendiente is the only persisted reservation status.
// Confirming or cancelling deletes the document, so there is no
// 'confirmada'/'cancelada' row to transition into.
const ReservaStatusPendiente = "pendiente"

// Reserva is the model for the 'reservas' table: a provisional hold on
// stock that either becomes a venta (confirm) or gives the stock back
// (cancel).
type Reserva struct {
	ID     int64     `json:"id" db:"id"`
	UserID int64     `json:"userId" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`
	Status string    `json:"status" db:"status"`

	// Populated from 'reserva_items' on reads, not a DB column.
	Items []ReservaItem `json:"items" db:"-"`
}

// ReservaItem is the model for the 'reserva_items' table. Unlike venta
// items it keeps the stock row id, because cancel/edit must adjust the
// quantity on hand of the exact item that was reserved.
type ReservaItem struct {
	ID          int64   `json:"id" db:"id"`
	ReservaID   int64   `json:"-" db:"reserva_id"`
	StockID     int64   `json:"stockId" db:"stock_id"`
	SKU         string  `json:"sku" db:"sku"`
	Producto    string  `json:"producto" db:"producto"`
	Cantidad    int     `json:"cantidad" db:"cantidad"`
	PrecioVenta float64 `json:"precioVenta" db:"precio_venta"`
}
