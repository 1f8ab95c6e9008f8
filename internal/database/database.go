package database

import (
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB initializes and returns the application's connection pool.
// The DSN comes from the DB_DSN environment variable, with a local
// development fallback.
func OpenDB() (*sql.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "root:libreria@tcp(127.0.0.1:3306)/libreria?parseTime=true"
	}

	return OpenDBWithDSN(dsn)
}

// OpenDBWithDSN creates and configures a pool from any DSN. Kept
// separate so ad-hoc tools (migrations, seed scripts) can reuse it.
func OpenDBWithDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, err
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}
