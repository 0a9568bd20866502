package application

import (
	"iter"
	"log/slog"
	"strings"

	catalogdomain "onlineretail/internal/catalog/domain"
	"onlineretail/internal/ingest/domain"
	salesdomain "onlineretail/internal/sales/domain"
)

// Stats compte les lignes lues, rejetées et les champs remplacés par leur valeur par défaut.
// L'ETL est mono-thread: pas besoin de compteurs atomiques.
type Stats struct {
	RowsRead          int64
	RowsDropped       int64
	DatesDefaulted    int64
	QuantityDefaulted int64
	PriceDefaulted    int64
}

// LogValue implémente slog.LogValuer pour le logging structuré
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("rows_read", s.RowsRead),
		slog.Int64("rows_dropped", s.RowsDropped),
		slog.Int64("dates_defaulted", s.DatesDefaulted),
		slog.Int64("quantities_defaulted", s.QuantityDefaulted),
		slog.Int64("prices_defaulted", s.PriceDefaulted),
	)
}

// Normalizer transforme les lignes brutes en entités dédupliquées
type Normalizer struct {
	batch *domain.Batch
	stats Stats
}

// NewNormalizer crée un normalizer avec un batch vide
func NewNormalizer() *Normalizer {
	return &Normalizer{batch: domain.NewBatch()}
}

// Stats retourne une copie des compteurs
func (n *Normalizer) Stats() Stats {
	return n.stats
}

// Normalize consomme toute la séquence de lignes.
// Une erreur de lecture interrompt le run: rien ne doit être chargé dans ce cas.
func (n *Normalizer) Normalize(rows iter.Seq2[domain.Row, error]) (*domain.Batch, error) {
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		n.Add(row)
	}
	return n.batch, nil
}

// Add intègre une ligne. Retourne false si la ligne est ignorée
// (numéro de facture, client ou stock code manquant): aucune entité n'est alors créée.
func (n *Normalizer) Add(row domain.Row) bool {
	n.stats.RowsRead++

	invoiceNo := salesdomain.InvoiceNo(strings.TrimSpace(row.Get(domain.ColumnInvoiceNo)))
	customerID := salesdomain.CustomerID(strings.TrimSpace(row.Get(domain.ColumnCustomerID)))
	stockCode := catalogdomain.StockCode(strings.TrimSpace(row.Get(domain.ColumnStockCode)))

	if invoiceNo == "" || customerID == "" || stockCode == "" {
		n.stats.RowsDropped++
		return false
	}

	quantity, ok := domain.ParseQuantity(row.Get(domain.ColumnQuantity))
	if !ok {
		n.stats.QuantityDefaulted++
	}
	unitPrice, ok := domain.ParseUnitPrice(row.Get(domain.ColumnUnitPrice))
	if !ok {
		n.stats.PriceDefaulted++
	}
	invoiceDate, ok := domain.ParseInvoiceDate(row.Get(domain.ColumnInvoiceDate))
	if !ok {
		n.stats.DatesDefaulted++
	}

	// Les identifiants sont non vides: les constructeurs ne peuvent pas échouer ici
	if _, exists := n.batch.Customers.Get(customerID); !exists {
		customer, _ := salesdomain.NewCustomer(customerID, row.Get(domain.ColumnCountry))
		n.batch.Customers.PutIfAbsent(customerID, customer)
	}

	if _, exists := n.batch.Products.Get(stockCode); !exists {
		product, _ := catalogdomain.NewProduct(stockCode, row.Get(domain.ColumnDescription), unitPrice)
		n.batch.Products.PutIfAbsent(stockCode, product)
	}

	invoice, exists := n.batch.Invoices.Get(invoiceNo)
	if !exists {
		invoice, _ = salesdomain.NewInvoice(invoiceNo, customerID, invoiceDate)
		n.batch.Invoices.PutIfAbsent(invoiceNo, invoice)
	}
	invoice.AddItem(salesdomain.NewLineItem(stockCode, quantity, unitPrice))

	return true
}
