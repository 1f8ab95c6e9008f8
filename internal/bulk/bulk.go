// Package bulk parses the spreadsheet format used for mass stock loads:
// first worksheet only, a header row with fixed uppercase column names,
// one stock item per data row.
package bulk

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Header names the importer recognizes. Column order does not matter;
// unknown columns are ignored.
const (
	ColSKU       = "SKU"
	ColProducto  = "PRODUCTO"
	ColAutor     = "AUTOR"
	ColCategoria = "CATEGORIA"
	ColPrecioUSD = "PRECIOUSD"
	ColStock     = "STOCK"
	ColEstante   = "ESTANTE"
)

// Row is one spreadsheet line mapped onto stock fields. Missing string
// cells default to "" and missing numeric cells to 0.
type Row struct {
	SKU       string
	Producto  string
	Autor     string
	Categoria string
	PrecioUSD float64
	Stock     int
	Estante   int
}

// RowError records a data row that could not be mapped. The row number
// is 1-based as shown in the spreadsheet (the header is row 1).
type RowError struct {
	Row int
	Err error
}

// ParseWorkbook reads the first worksheet and maps every data row.
// Malformed rows are skipped and reported, never aborting the rest of
// the file. A missing header row or unreadable workbook is an error.
func ParseWorkbook(r io.Reader) ([]Row, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	columns := headerIndex(cells[0])

	var rows []Row
	var skipped []RowError
	for i, line := range cells[1:] {
		rowNum := i + 2 // 1-based, after the header

		if isEmptyLine(line) {
			continue
		}

		row, err := mapRow(columns, line)
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Err: err})
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// headerIndex maps recognized column names to their position.
func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return columns
}

func isEmptyLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func mapRow(columns map[string]int, line []string) (Row, error) {
	row := Row{
		SKU:       stringCell(columns, line, ColSKU),
		Producto:  stringCell(columns, line, ColProducto),
		Autor:     stringCell(columns, line, ColAutor),
		Categoria: stringCell(columns, line, ColCategoria),
	}

	if row.SKU == "" && row.Producto == "" {
		return Row{}, fmt.Errorf("row has neither SKU nor PRODUCTO")
	}

	var err error
	if row.PrecioUSD, err = floatCell(columns, line, ColPrecioUSD); err != nil {
		return Row{}, err
	}
	if row.Stock, err = intCell(columns, line, ColStock); err != nil {
		return Row{}, err
	}
	if row.Estante, err = intCell(columns, line, ColEstante); err != nil {
		return Row{}, err
	}
	return row, nil
}

func stringCell(columns map[string]int, line []string, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[i])
}

func floatCell(columns map[string]int, line []string, name string) (float64, error) {
	raw := stringCell(columns, line, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", name, raw)
	}
	return v, nil
}

func intCell(columns map[string]int, line []string, name string) (int, error) {
	v, err := floatCell(columns, line, name)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
