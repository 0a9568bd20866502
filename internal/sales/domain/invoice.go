package domain

import (
	"encoding/json"
	"errors"
	"time"

	catalogdomain "onlineretail/internal/catalog/domain"
	"onlineretail/internal/shared/domain"
)

// InvoiceNo représente le numéro de facture (les avoirs commencent par "C")
type InvoiceNo string

// LineItem représente une ligne de facture (value object embarqué dans Invoice)
type LineItem struct {
	productID catalogdomain.StockCode
	quantity  int
	unitPrice domain.Money
}

// NewLineItem crée une ligne de facture
// Pas de validation: quantité et prix ont déjà été coercés à zéro si illisibles
func NewLineItem(productID catalogdomain.StockCode, quantity int, unitPrice domain.Money) LineItem {
	return LineItem{
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
	}
}

// ProductID retourne le stock code du produit
func (li LineItem) ProductID() catalogdomain.StockCode {
	return li.productID
}

// Quantity retourne la quantité (négative pour un retour)
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice retourne le prix unitaire appliqué sur la ligne
func (li LineItem) UnitPrice() domain.Money {
	return li.unitPrice
}

// lineItemJSON est la forme stockée dans invoices.items
type lineItemJSON struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unit_price"`
}

// MarshalJSON sérialise la ligne avec un prix numérique (pas une chaîne)
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ProductID: string(li.productID),
		Quantity:  li.quantity,
		UnitPrice: json.Number(li.unitPrice.String()),
	})
}

// UnmarshalJSON relit une ligne stockée
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price := domain.ZeroMoney
	if raw.UnitPrice != "" {
		var err error
		if price, err = domain.ParseMoney(raw.UnitPrice.String()); err != nil {
			return err
		}
	}
	*li = NewLineItem(catalogdomain.StockCode(raw.ProductID), raw.Quantity, price)
	return nil
}

// Invoice représente une facture (aggregate root), identifiée par (numéro, client)
type Invoice struct {
	invoiceNo   InvoiceNo
	customerID  CustomerID
	invoiceDate time.Time
	items       []LineItem
}

// NewInvoice crée une nouvelle facture sans lignes
func NewInvoice(invoiceNo InvoiceNo, customerID CustomerID, invoiceDate time.Time) (*Invoice, error) {
	if invoiceNo == "" {
		return nil, errors.New("invoice number cannot be empty")
	}
	if customerID == "" {
		return nil, errors.New("invalid customer ID")
	}

	return &Invoice{
		invoiceNo:   invoiceNo,
		customerID:  customerID,
		invoiceDate: invoiceDate,
		items:       make([]LineItem, 0),
	}, nil
}

// InvoiceNo retourne le numéro de facture
func (i *Invoice) InvoiceNo() InvoiceNo {
	return i.invoiceNo
}

// CustomerID retourne l'identifiant du client
func (i *Invoice) CustomerID() CustomerID {
	return i.customerID
}

// InvoiceDate retourne la date de facture
func (i *Invoice) InvoiceDate() time.Time {
	return i.invoiceDate
}

// Items retourne une copie des lignes, dans l'ordre de lecture
func (i *Invoice) Items() []LineItem {
	return append([]LineItem{}, i.items...)
}

// AddItem ajoute une ligne en fin de facture
func (i *Invoice) AddItem(item LineItem) {
	i.items = append(i.items, item)
}

// ItemsJSON sérialise les lignes pour la colonne invoices.items
func (i *Invoice) ItemsJSON() (string, error) {
	data, err := json.Marshal(i.items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
