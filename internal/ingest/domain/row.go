package domain

// Colonnes du fichier Online Retail (une ligne de facture par ligne)
const (
	ColumnInvoiceNo   = "InvoiceNo"
	ColumnStockCode   = "StockCode"
	ColumnDescription = "Description"
	ColumnQuantity    = "Quantity"
	ColumnInvoiceDate = "InvoiceDate"
	ColumnUnitPrice   = "UnitPrice"
	ColumnCustomerID  = "CustomerID"
	ColumnCountry     = "Country"
)

// Headers retourne les en-têtes attendus, dans l'ordre du fichier d'origine
func Headers() []string {
	return []string{
		ColumnInvoiceNo,
		ColumnStockCode,
		ColumnDescription,
		ColumnQuantity,
		ColumnInvoiceDate,
		ColumnUnitPrice,
		ColumnCustomerID,
		ColumnCountry,
	}
}

// Row représente une ligne brute: nom de colonne -> valeur texte
type Row map[string]string

// Get retourne la valeur d'une colonne ("" si absente)
func (r Row) Get(column string) string {
	return r[column]
}
