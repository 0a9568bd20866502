package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"onlineretail/internal/catalog/domain"
	shareddomain "onlineretail/internal/shared/domain"
	"onlineretail/internal/shared/infrastructure"
)

// ProductRepository repository des produits: une requête paramétrée par opération
type ProductRepository struct {
	infrastructure.BaseRepository
}

// NewProductRepository crée un nouveau repository sur le pool partagé
func NewProductRepository(db infrastructure.Executor) *ProductRepository {
	return &ProductRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
	}
}

// scanner couvre *sql.Row et *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		stockCode   string
		description sql.NullString
		unitPrice   decimal.Decimal
	)

	if err := s.Scan(&stockCode, &description, &unitPrice); err != nil {
		return nil, err
	}

	return domain.NewProduct(
		domain.StockCode(stockCode),
		description.String,
		shareddomain.NewMoney(unitPrice),
	)
}

// FindAll récupère tous les produits (pas de pagination)
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT stock_code, description, unit_price
		FROM products
		ORDER BY stock_code
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// FindByStockCode trouve un produit; retourne domain.ErrProductNotFound s'il n'existe pas
func (r *ProductRepository) FindByStockCode(ctx context.Context, stockCode domain.StockCode) (*domain.Product, error) {
	query := `
		SELECT stock_code, description, unit_price
		FROM products
		WHERE stock_code = $1
	`

	product, err := scanProduct(r.QueryRow(ctx, query, string(stockCode)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	return product, err
}

// Create insère un produit. Un doublon remonte l'erreur de contrainte du store telle quelle.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.Exec(ctx,
		`INSERT INTO products (stock_code, description, unit_price) VALUES ($1, $2, $3)`,
		string(product.StockCode()), product.Description(), product.UnitPrice().Amount(),
	)
	return err
}

// Update modifie description et prix; retourne domain.ErrProductNotFound si aucune ligne ne correspond
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result, err := r.Exec(ctx,
		`UPDATE products SET description = $1, unit_price = $2 WHERE stock_code = $3`,
		product.Description(), product.UnitPrice().Amount(), string(product.StockCode()),
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete supprime un produit; retourne domain.ErrProductNotFound si aucune ligne ne correspond
func (r *ProductRepository) Delete(ctx context.Context, stockCode domain.StockCode) error {
	result, err := r.Exec(ctx, `DELETE FROM products WHERE stock_code = $1`, string(stockCode))
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
