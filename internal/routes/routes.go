package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/handlers"
	"github.com/jmcampos/libreria-api/internal/middleware"
)

// CORSMiddleware allows the admin frontend (a separate dev server) to
// call the API with its Authorization header.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			// --- Profile ---
			auth.GET("/profile", h.GetProfile)
			auth.PUT("/profile", h.UpdateProfile)

			// --- Exchange Rate ---
			auth.GET("/exchange-rate", h.GetExchangeRate)

			// --- Stock Routes ---
			auth.POST("/stock", h.CreateStockItem)
			auth.GET("/stock/search", h.SearchStock)
			auth.GET("/stock/categories", h.GetCategories)
			auth.POST("/stock/import", h.ImportStock)
			auth.PUT("/stock/:id", h.UpdateStockItem)
			auth.DELETE("/stock/:id", h.DeleteStockItem)

			// --- Venta Routes ---
			auth.POST("/ventas", h.RegisterSale)
			auth.GET("/ventas", h.GetMyVentas)

			// --- Reserva Routes ---
			auth.POST("/reservas", h.CreateReservation)
			auth.GET("/reservas", h.GetMyReservations)
			auth.PUT("/reservas/:id", h.UpdateReservation)
			auth.POST("/reservas/:id/cancel", h.CancelReservation)
			auth.POST("/reservas/:id/confirm", h.ConfirmReservation)

			// --- Dashboard Routes ---
			auth.GET("/dashboard/inventory", h.GetInventoryStats)
			auth.GET("/dashboard/daily-sales", h.GetDailySales)
			auth.GET("/dashboard/year-sales", h.GetYearSales)
			auth.GET("/dashboard/category-counts", h.GetCategoryCounts)

			// --- Members & Books ---
			auth.GET("/members", h.GetMembers)
			auth.GET("/books", h.GetBooks)
		}
	}

	return router
}
