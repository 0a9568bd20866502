package domain

import (
	"errors"
	"fmt"

	"onlineretail/internal/shared/domain"
)

// ErrProductNotFound est retourné quand aucun produit ne correspond au stock code
var ErrProductNotFound = errors.New("product not found")

// StockCode représente la clé naturelle d'un produit (immuable après création)
type StockCode string

// ValidationError décrit une donnée produit invalide (mappée en 400 par l'API)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Product représente un produit du catalogue
type Product struct {
	stockCode   StockCode
	description string
	unitPrice   domain.Money
}

// NewProduct crée une nouvelle instance de Product
// Seul le stock code est obligatoire: l'ETL accepte les descriptions vides du fichier source
func NewProduct(stockCode StockCode, description string, unitPrice domain.Money) (*Product, error) {
	if stockCode == "" {
		return nil, &ValidationError{Field: "stock_code", Reason: "cannot be empty"}
	}

	return &Product{
		stockCode:   stockCode,
		description: description,
		unitPrice:   unitPrice,
	}, nil
}

// StockCode retourne l'identifiant du produit
func (p *Product) StockCode() StockCode {
	return p.stockCode
}

// Description retourne la description
func (p *Product) Description() string {
	return p.description
}

// UnitPrice retourne le prix unitaire
func (p *Product) UnitPrice() domain.Money {
	return p.unitPrice
}
