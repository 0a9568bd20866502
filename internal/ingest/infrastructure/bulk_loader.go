package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"onlineretail/internal/ingest/domain"
	sharedinfra "onlineretail/internal/shared/infrastructure"
)

const (
	insertCustomerSQL = `INSERT INTO customers (id, country) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	insertProductSQL = `INSERT INTO products (stock_code, description, unit_price) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`

	// Les factures sont la seule entité écrasée: dernier chargement gagnant
	upsertInvoiceSQL = `
		INSERT INTO invoices (invoice_no, customer_id, invoice_date, items)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (invoice_no, customer_id) DO UPDATE
		SET invoice_date = EXCLUDED.invoice_date, items = EXCLUDED.items
	`
)

// BulkLoader écrit un batch complet dans une seule transaction (tout ou rien)
type BulkLoader struct {
	uow sharedinfra.UnitOfWork
}

// NewBulkLoader crée un loader sur le pool partagé
func NewBulkLoader(db *sql.DB) *BulkLoader {
	return &BulkLoader{uow: sharedinfra.NewUnitOfWork(db)}
}

// Load insère clients, puis produits, puis factures, une requête à la fois.
// Toute erreur annule la transaction entière; aucune relance.
func (l *BulkLoader) Load(ctx context.Context, batch *domain.Batch) error {
	return l.uow.Execute(ctx, func(tx *sql.Tx) error {
		for _, c := range batch.Customers.Values() {
			if _, err := tx.ExecContext(ctx, insertCustomerSQL, string(c.ID()), c.Country()); err != nil {
				return fmt.Errorf("insert customer %s: %w", c.ID(), err)
			}
		}

		for _, p := range batch.Products.Values() {
			if _, err := tx.ExecContext(ctx, insertProductSQL,
				string(p.StockCode()), p.Description(), p.UnitPrice().Amount(),
			); err != nil {
				return fmt.Errorf("insert product %s: %w", p.StockCode(), err)
			}
		}

		for _, inv := range batch.Invoices.Values() {
			items, err := inv.ItemsJSON()
			if err != nil {
				return fmt.Errorf("encode items of invoice %s: %w", inv.InvoiceNo(), err)
			}
			if _, err := tx.ExecContext(ctx, upsertInvoiceSQL,
				string(inv.InvoiceNo()), string(inv.CustomerID()), inv.InvoiceDate(), items,
			); err != nil {
				return fmt.Errorf("upsert invoice %s: %w", inv.InvoiceNo(), err)
			}
		}

		return nil
	})
}
