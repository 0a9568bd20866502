package domain

import (
	catalogdomain "onlineretail/internal/catalog/domain"
	salesdomain "onlineretail/internal/sales/domain"
	shareddomain "onlineretail/internal/shared/domain"
)

// Batch regroupe les entités dédupliquées d'un run d'ETL, prêtes pour le chargement.
// Durée de vie: un seul run; rien n'est conservé entre deux exécutions.
type Batch struct {
	Customers *shareddomain.Keyed[salesdomain.CustomerID, *salesdomain.Customer]
	Products  *shareddomain.Keyed[catalogdomain.StockCode, *catalogdomain.Product]
	Invoices  *shareddomain.Keyed[salesdomain.InvoiceNo, *salesdomain.Invoice]
}

// NewBatch crée un batch vide
func NewBatch() *Batch {
	return &Batch{
		Customers: shareddomain.NewKeyed[salesdomain.CustomerID, *salesdomain.Customer](),
		Products:  shareddomain.NewKeyed[catalogdomain.StockCode, *catalogdomain.Product](),
		Invoices:  shareddomain.NewKeyed[salesdomain.InvoiceNo, *salesdomain.Invoice](),
	}
}

// LineItemCount retourne le nombre total de lignes de facture
func (b *Batch) LineItemCount() int {
	total := 0
	for _, inv := range b.Invoices.Values() {
		total += len(inv.Items())
	}
	return total
}
