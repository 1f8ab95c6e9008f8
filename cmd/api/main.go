package main

import (
	"log"
	"os"

	"github.com/jmcampos/libreria-api/internal/database"
	"github.com/jmcampos/libreria-api/internal/exchange"
	"github.com/jmcampos/libreria-api/internal/handlers"
	"github.com/jmcampos/libreria-api/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Application Setup ---
	// The exchange rate is fetched lazily on first use and cached for
	// the life of the process (falls back to a fixed rate on failure).
	app := &handlers.Handlers{
		DB:    db,
		Rates: exchange.NewClient(),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":8080"
	}
	log.Printf("Starting Libreria API server on %s...", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
