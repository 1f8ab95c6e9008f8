package handlers_test

import (
	"net/http"
	"testing"
)

func TestRegisterSaleDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.seedStock(t, "L-1", "Rayuela", "Cortázar", "LIBROS", 10, 10)
	cafeID := env.seedStock(t, "C-1", "Café 250g", "", "CAFE", 6, 4)

	rr := env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{
			{"stockId": bookID, "sku": "L-1", "producto": "Rayuela", "cantidad": 2, "precioVenta": 3500},
			{"stockId": cafeID, "sku": "C-1", "producto": "Café 250g", "cantidad": 1, "precioVenta": 2100},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		VentaID int64   `json:"ventaId"`
		Total   float64 `json:"total"`
	}
	decodeBody(t, rr, &resp)
	if resp.Total != 2*3500+2100 {
		t.Fatalf("expected total 9100, got %v", resp.Total)
	}

	if qty := env.stockQty(t, bookID); qty != 8 {
		t.Fatalf("expected book stock 8, got %d", qty)
	}
	if qty := env.stockQty(t, cafeID); qty != 3 {
		t.Fatalf("expected cafe stock 3, got %d", qty)
	}
	if n := env.count(t, "venta_items"); n != 2 {
		t.Fatalf("expected 2 venta items, got %d", n)
	}
}

func TestRegisterSaleInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	okID := env.seedStock(t, "L-1", "Rayuela", "Cortázar", "LIBROS", 10, 10)
	lowID := env.seedStock(t, "L-2", "El Aleph", "Borges", "LIBROS", 8, 1)

	rr := env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{
			{"stockId": okID, "cantidad": 2, "precioVenta": 3500},
			{"stockId": lowID, "cantidad": 3, "precioVenta": 2800},
		},
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	// The whole venta rolls back: no sale rows, no partial decrement.
	if n := env.count(t, "ventas"); n != 0 {
		t.Fatalf("expected no ventas, got %d", n)
	}
	if n := env.count(t, "venta_items"); n != 0 {
		t.Fatalf("expected no venta items, got %d", n)
	}
	if qty := env.stockQty(t, okID); qty != 10 {
		t.Fatalf("first item's decrement leaked through rollback: %d", qty)
	}
	if qty := env.stockQty(t, lowID); qty != 1 {
		t.Fatalf("low-stock item changed: %d", qty)
	}
}

func TestRegisterSaleRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{"items": []any{}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rr.Code)
	}

	rr = env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{{"stockId": 1, "cantidad": 0, "precioVenta": 100}},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rr.Code)
	}
}

func TestRegisterSaleRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rr := env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{"items": []any{}})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGetMyVentasReturnsOwnSalesWithItems(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.seedStock(t, "L-1", "Rayuela", "Cortázar", "LIBROS", 10, 10)

	rr := env.doJSON(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{
			{"stockId": bookID, "sku": "L-1", "producto": "Rayuela", "cantidad": 1, "precioVenta": 3500},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register sale: %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(t, http.MethodGet, "/v1/ventas", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Ventas []struct {
			Total float64 `json:"total"`
			Items []struct {
				SKU      string `json:"sku"`
				Cantidad int    `json:"cantidad"`
			} `json:"items"`
		} `json:"ventas"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Ventas) != 1 {
		t.Fatalf("expected 1 venta, got %d", len(resp.Ventas))
	}
	v := resp.Ventas[0]
	if v.Total != 3500 || len(v.Items) != 1 || v.Items[0].SKU != "L-1" || v.Items[0].Cantidad != 1 {
		t.Fatalf("unexpected venta payload: %+v", v)
	}
}
