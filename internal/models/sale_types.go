package models

import "time"

// Venta is the model for the 'ventas' table. A venta is immutable once
// written: line items are snapshots, never references into 'stock'.
type Venta struct {
	ID     int64     `json:"id" db:"id"`
	UserID int64     `json:"userId" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`
	Total  float64   `json:"total" db:"total"`

	// Populated from 'venta_items' on reads, not a DB column.
	Items []VentaItem `json:"items" db:"-"`
}

// VentaItem is the model for the 'venta_items' table.
type VentaItem struct {
	ID          int64   `json:"id" db:"id"`
	VentaID     int64   `json:"-" db:"venta_id"`
	SKU         string  `json:"sku" db:"sku"`
	Producto    string  `json:"producto" db:"producto"`
	Cantidad    int     `json:"cantidad" db:"cantidad"`
	PrecioVenta float64 `json:"precioVenta" db:"precio_venta"`
}
