package client

import (
	"context"
	"strconv"
	"strings"
)

// View garde le dernier instantané de la liste et un filtre texte.
// Après chaque mutation réussie la liste complète est relue, jamais patchée localement.
type View struct {
	client   *Client
	products []Product
	filter   string
}

// NewView crée une vue vide; appeler Refresh pour la remplir
func NewView(c *Client) *View {
	return &View{client: c}
}

// Refresh relit la liste complète
func (v *View) Refresh(ctx context.Context) error {
	products, err := v.client.List(ctx)
	if err != nil {
		return err
	}
	v.products = products
	return nil
}

// SetFilter définit la sous-chaîne recherchée
func (v *View) SetFilter(filter string) {
	v.filter = filter
}

// Client retourne le client HTTP sous-jacent
func (v *View) Client() *Client {
	return v.client
}

// Products retourne l'instantané complet
func (v *View) Products() []Product {
	return v.products
}

// Visible retourne les produits dont le stock code, la description ou le prix contient le filtre
func (v *View) Visible() []Product {
	if v.filter == "" {
		return v.products
	}

	needle := strings.ToLower(v.filter)
	visible := make([]Product, 0, len(v.products))
	for _, p := range v.products {
		if matches(p, needle) {
			visible = append(visible, p)
		}
	}
	return visible
}

func matches(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.StockCode), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(FormatPrice(p.UnitPrice), needle)
}

// FormatPrice rend le prix sous sa forme la plus courte (9.99, 12.5, 3)
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// Create ajoute un produit puis relit la liste
func (v *View) Create(ctx context.Context, p Product) error {
	if err := v.client.Create(ctx, p); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Update modifie un produit puis relit la liste
func (v *View) Update(ctx context.Context, stockCode, description string, unitPrice float64) error {
	if err := v.client.Update(ctx, stockCode, description, unitPrice); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Delete supprime un produit puis relit la liste
func (v *View) Delete(ctx context.Context, stockCode string) error {
	if err := v.client.Delete(ctx, stockCode); err != nil {
		return err
	}
	return v.Refresh(ctx)
}
