package testhelpers

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"onlineretail/database"
	"onlineretail/internal/config"
)

// SetupSQLiteDB ouvre une base SQLite en mémoire avec le schéma appliqué.
// Une seule connexion: chaque connexion SQLite ":memory:" a sa propre base.
func SetupSQLiteDB(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		tb.Fatalf("Failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { db.Close() })

	if err := database.ApplySchema(context.Background(), db); err != nil {
		tb.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

// SetupTestDB initialise une connexion à la base PostgreSQL de test (skip si indisponible).
// Les tables sont vidées pour que chaque test parte d'un état connu.
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	// Charger les variables d'environnement
	_ = godotenv.Load("../../../.env")

	db, err := sql.Open("postgres", connString())
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		tb.Skip("Database not available:", err)
	}
	tb.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db); err != nil {
		tb.Fatalf("Failed to apply schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE invoices, products, customers`); err != nil {
		tb.Fatalf("Failed to truncate tables: %v", err)
	}
	return db
}

// connString construit la connection string à partir de l'environnement
func connString() string {
	port, err := strconv.Atoi(getEnv("PGPORT", "5432"))
	if err != nil {
		port = 5432
	}
	cfg := config.DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     port,
		User:     getEnv("PGUSER", "postgres"),
		Password: getEnv("PGPASSWORD", "postgres"),
		Name:     getEnv("PGDATABASE", "online_retail_test"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}
	return cfg.DSN()
}

// getEnv récupère une variable d'environnement avec fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
