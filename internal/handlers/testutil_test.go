package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/auth"
	"github.com/jmcampos/libreria-api/internal/exchange"
	"github.com/jmcampos/libreria-api/internal/handlers"
	"github.com/jmcampos/libreria-api/internal/routes"
	_ "modernc.org/sqlite"
)

// testSchema mirrors schema.sql in sqlite dialect. Tests run against an
// in-memory database; production uses MySQL with the same statements'
// semantics (? placeholders, LastInsertId, DATETIME columns).
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		nombre TEXT NOT NULL,
		telefono TEXT,
		direccion TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE stock (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT NOT NULL,
		producto TEXT NOT NULL,
		autor TEXT NOT NULL DEFAULT '',
		categoria TEXT NOT NULL DEFAULT '',
		precio_usd REAL NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0,
		estante INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE ventas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date DATETIME NOT NULL,
		total REAL NOT NULL
	)`,
	`CREATE TABLE venta_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venta_id INTEGER NOT NULL,
		sku TEXT NOT NULL,
		producto TEXT NOT NULL,
		cantidad INTEGER NOT NULL,
		precio_venta REAL NOT NULL
	)`,
	`CREATE TABLE reservas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pendiente'
	)`,
	`CREATE TABLE reserva_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reserva_id INTEGER NOT NULL,
		stock_id INTEGER NOT NULL,
		sku TEXT NOT NULL,
		producto TEXT NOT NULL,
		cantidad INTEGER NOT NULL,
		precio_venta REAL NOT NULL
	)`,
	`CREATE TABLE members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		email TEXT NOT NULL,
		membership_type TEXT NOT NULL,
		join_date TEXT NOT NULL
	)`,
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		titulo TEXT NOT NULL,
		autor TEXT NOT NULL,
		genero TEXT NOT NULL,
		estado TEXT NOT NULL
	)`,
}

type testEnv struct {
	h      *handlers.Handlers
	router *gin.Engine
	db     *sql.DB
	token  string
	userID int64
}

// newTestEnv builds the full router against an in-memory database, a
// stubbed exchange-rate service serving rate 350, and one registered
// user with a valid token.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second connection would see a different empty :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	rateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rates":{"ARS":350}}`)
	}))
	t.Cleanup(rateSrv.Close)

	h := &handlers.Handlers{
		DB:    db,
		Rates: exchange.NewClientWithURL(rateSrv.URL),
	}

	env := &testEnv{
		h:      h,
		router: routes.SetupRouter(h),
		db:     db,
	}
	env.userID = env.seedUser(t, "vendedor@libreria.test")
	token, err := auth.GenerateToken(env.userID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	env.token = token
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string) int64 {
	t.Helper()
	res, err := e.db.Exec(
		"INSERT INTO users (email, password_hash, nombre, created_at) VALUES (?, ?, ?, ?)",
		email, "x", "Vendedor", time.Now(),
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}

// seedStock inserts one stock row and returns its id.
func (e *testEnv) seedStock(t *testing.T, sku, producto, autor, categoria string, precioUSD float64, stock int) int64 {
	t.Helper()
	res, err := e.db.Exec(
		"INSERT INTO stock (sku, producto, autor, categoria, precio_usd, stock, estante, created_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?)",
		sku, producto, autor, categoria, precioUSD, stock, time.Now(),
	)
	if err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed stock id: %v", err)
	}
	return id
}

// stockQty reads an item's quantity on hand straight from the table.
func (e *testEnv) stockQty(t *testing.T, id int64) int {
	t.Helper()
	var qty int
	if err := e.db.QueryRow("SELECT stock FROM stock WHERE id = ?", id).Scan(&qty); err != nil {
		t.Fatalf("read stock %d: %v", id, err)
	}
	return qty
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// doJSON performs an authenticated JSON request against the router.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}
