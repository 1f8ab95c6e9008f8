package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/exchange"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB    *sql.DB          // Shared connection pool
	Rates *exchange.Client // Session-cached USD to ARS rate
}

// currentUserID returns the user the auth middleware resolved for this
// request. The context value is the only session source handlers use.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := raw.(int64)
	return id, ok
}

// GetExchangeRate is the handler for GET /v1/exchange-rate
// The rate is fetched once per process and cached, so repeated calls
// are free.
func (h *Handlers) GetExchangeRate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rate": h.Rates.Rate(c.Request.Context())})
}
