// Package client fournit un client HTTP typé pour l'API catalogue.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Product représentation d'un produit côté client
type Product struct {
	StockCode   string  `json:"stock_code"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

// APIError réponse non 2xx de l'API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound indique si err est un 404 de l'API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client appelle les cinq opérations produits
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configure un Client
type Option func(*Client)

// WithHTTPClient remplace le client HTTP par défaut
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New crée un client pour baseURL (ex: http://localhost:5000)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List retourne tous les produits
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Get retourne un produit par stock code
func (c *Client) Get(ctx context.Context, stockCode string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, productPath(stockCode), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create ajoute un produit
func (c *Client) Create(ctx context.Context, p Product) error {
	return c.do(ctx, http.MethodPost, "/products", p, nil)
}

// Update remplace description et prix; le stock code n'est pas modifiable
func (c *Client) Update(ctx context.Context, stockCode, description string, unitPrice float64) error {
	body := struct {
		Description string  `json:"description"`
		UnitPrice   float64 `json:"unit_price"`
	}{description, unitPrice}
	return c.do(ctx, http.MethodPut, productPath(stockCode), body, nil)
}

// Delete supprime un produit
func (c *Client) Delete(ctx context.Context, stockCode string) error {
	return c.do(ctx, http.MethodDelete, productPath(stockCode), nil, nil)
}

func productPath(stockCode string) string {
	return "/products/" + url.PathEscape(stockCode)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
