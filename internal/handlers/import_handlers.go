package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmcampos/libreria-api/internal/bulk"
)

// ImportStock handles POST /v1/stock/import
// The uploaded workbook is kept under "uploads" (audit trail for bad
// loads), then every data row becomes one stock insert. Rows fail
// independently: the import always runs to the end and reports a
// success/error tally instead of aborting.
func (h *Handlers) ImportStock(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Create "uploads" directory if it doesn't exist
	uploadPath := "./uploads"
	if _, err := os.Stat(uploadPath); os.IsNotExist(err) {
		os.Mkdir(uploadPath, 0755)
	}

	// 3. Save under a safe unique filename (uuid + extension)
	ext := filepath.Ext(file.Filename)
	savePath := filepath.Join(uploadPath, fmt.Sprintf("%s%s", uuid.New().String(), ext))
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 4. Parse the saved workbook
	f, err := os.Open(savePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read saved file"})
		return
	}
	defer f.Close()

	rows, skipped, err := bulk.ParseWorkbook(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Could not parse spreadsheet: %v", err)})
		return
	}

	// 5. Insert row by row. No dedup against existing SKUs: re-importing
	// the same file creates duplicate items, as the stock screen warns.
	query := `
		INSERT INTO stock (sku, producto, autor, categoria, precio_usd, stock, estante, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	uploaded := 0
	errorCount := len(skipped)
	errorDetails := make([]string, 0, len(skipped))
	for _, bad := range skipped {
		errorDetails = append(errorDetails, fmt.Sprintf("row %d: %v", bad.Row, bad.Err))
	}

	now := time.Now()
	for i, row := range rows {
		_, err := h.DB.Exec(query,
			row.SKU, row.Producto, row.Autor, row.Categoria,
			row.PrecioUSD, row.Stock, row.Estante, now,
		)
		if err != nil {
			errorCount++
			errorDetails = append(errorDetails, fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}
		uploaded++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Carga completada. %d items subidos. %d errores.", uploaded, errorCount),
		"uploaded": uploaded,
		"errors":   errorCount,
		"details":  errorDetails,
	})
}
