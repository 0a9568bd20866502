package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema contient le DDL des tables customers, products et invoices.
// Compatible PostgreSQL et SQLite (utilisé par les tests).
//
//go:embed schema.sql
var Schema string

// Open ouvre le pool de connexions PostgreSQL et vérifie la connexion.
// Le pool est ensuite injecté dans les repositories (pas de variable globale).
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Pool de connexions partagé par tous les handlers
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// ApplySchema crée les tables si elles n'existent pas
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
