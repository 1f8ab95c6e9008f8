package models

import (
	"fmt"
	"time"
)

// StockItem is the model for the 'stock' table. One row per catalog entry:
// a product plus the quantity currently on hand and the shelf it lives on.
type StockItem struct {
	ID        int64     `json:"id" db:"id"`
	SKU       string    `json:"sku" db:"sku"`
	Producto  string    `json:"producto" db:"producto"`
	Autor     string    `json:"autor" db:"autor"`
	Categoria string    `json:"categoria" db:"categoria"`
	PrecioUSD float64   `json:"precioUSD" db:"precio_usd"`
	Stock     int       `json:"stock" db:"stock"`
	Estante   int       `json:"estante" db:"estante"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Categories is the fixed list the UI offers when creating stock items.
// It is a soft enum: the store accepts any free-text value, so this list
// is advisory only and nothing validates against it on write.
var Categories = []string{
	"ALFAJORES",
	"AUDIOVISUAL",
	"CAFE",
	"CHOCOLATE",
	"COMPUTACION",
	"ESCOLAR",
	"INGLES",
	"JUEGOS",
	"LIBRO",
	"LIBROS",
	"MANGA",
	"VINOS",
}

// IsKnownCategory reports whether c is one of the fixed categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SearchField selects which stock column a catalog search matches against.
type SearchField string

const (
	SearchBySKU      SearchField = "sku"
	SearchByAutor    SearchField = "autor"
	SearchByProducto SearchField = "producto"
)

// searchColumns maps each field to the column it queries. Only values in
// this table ever reach the SQL layer, so the column name is never taken
// from user input.
var searchColumns = map[SearchField]string{
	SearchBySKU:      "sku",
	SearchByAutor:    "autor",
	SearchByProducto: "producto",
}

// ParseSearchField validates a query-string value into a SearchField.
// An empty value defaults to searching by SKU.
func ParseSearchField(s string) (SearchField, error) {
	if s == "" {
		return SearchBySKU, nil
	}
	f := SearchField(s)
	if _, ok := searchColumns[f]; !ok {
		return "", fmt.Errorf("unknown search field %q", s)
	}
	return f, nil
}

// Column returns the stock column this field searches.
func (f SearchField) Column() string {
	return searchColumns[f]
}
