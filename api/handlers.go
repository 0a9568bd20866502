package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"onlineretail/internal/catalog/domain"
	shareddomain "onlineretail/internal/shared/domain"
)

const (
	msgInternalError  = "Internal Server Error"
	msgNotFound       = "Product not found"
	msgInvalidCreate  = "Invalid product data. Ensure stock_code, description, and numeric unit_price are provided."
	msgInvalidUpdate  = "Invalid product data. Ensure description and numeric unit_price are provided."
	msgProductCreated = "Product added successfully!"
	msgProductUpdated = "Product updated successfully!"
	msgProductDeleted = "Product deleted successfully!"
)

// ProductStore est le store utilisé par les handlers (implémenté par le repository, mocké en test)
type ProductStore interface {
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByStockCode(ctx context.Context, stockCode domain.StockCode) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, stockCode domain.StockCode) error
}

// Handlers contient les handlers produits; aucun état hormis le store partagé
type Handlers struct {
	store  ProductStore
	logger *slog.Logger
}

// NewHandlers crée une nouvelle instance des handlers
func NewHandlers(store ProductStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		logger: logger,
	}
}

// productResponse forme JSON d'un produit (prix numérique)
type productResponse struct {
	StockCode   string  `json:"stock_code"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

func toResponse(p *domain.Product) productResponse {
	return productResponse{
		StockCode:   string(p.StockCode()),
		Description: p.Description(),
		UnitPrice:   p.UnitPrice().Float64(),
	}
}

// createProductRequest: unit_price accepte un nombre ou une chaîne numérique ("9.99")
type createProductRequest struct {
	StockCode   string              `json:"stock_code"`
	Description string              `json:"description"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
}

type updateProductRequest struct {
	Description string              `json:"description"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
}

// validPrice exige un prix présent et représentable en float64 (rendu JSON des lectures)
func validPrice(price decimal.NullDecimal) bool {
	if !price.Valid {
		return false
	}
	f := price.Decimal.InexactFloat64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ListProducts handler pour GET /products
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.store.FindAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "Error fetching products", err)
		return
	}

	response := make([]productResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct handler pour GET /products/:stock_code
func (h *Handlers) GetProduct(c *gin.Context) {
	stockCode := domain.StockCode(c.Param("stock_code"))

	product, err := h.store.FindByStockCode(c.Request.Context(), stockCode)
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if err != nil {
		h.internalError(c, "Error fetching product by stock_code", err)
		return
	}
	c.JSON(http.StatusOK, toResponse(product))
}

// CreateProduct handler pour POST /products
// La validation est faite avant tout accès au store; un doublon de stock code remonte en 500
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCreate})
		return
	}
	if req.StockCode == "" || req.Description == "" || !validPrice(req.UnitPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCreate})
		return
	}

	product, err := domain.NewProduct(domain.StockCode(req.StockCode), req.Description, shareddomain.NewMoney(req.UnitPrice.Decimal))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCreate})
		return
	}

	if err := h.store.Create(c.Request.Context(), product); err != nil {
		h.internalError(c, "Error inserting product", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgProductCreated})
}

// UpdateProduct handler pour PUT /products/:stock_code (le stock code n'est jamais modifié)
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidUpdate})
		return
	}
	if req.Description == "" || !validPrice(req.UnitPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidUpdate})
		return
	}

	product, err := domain.NewProduct(domain.StockCode(c.Param("stock_code")), req.Description, shareddomain.NewMoney(req.UnitPrice.Decimal))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidUpdate})
		return
	}

	err = h.store.Update(c.Request.Context(), product)
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if err != nil {
		h.internalError(c, "Error updating product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgProductUpdated})
}

// DeleteProduct handler pour DELETE /products/:stock_code
func (h *Handlers) DeleteProduct(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), domain.StockCode(c.Param("stock_code")))
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if err != nil {
		h.internalError(c, "Error deleting product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgProductDeleted})
}

// internalError journalise le détail et renvoie un message générique
func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.logger.ErrorContext(c.Request.Context(), msg,
		"error", err,
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
}
