package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onlineretail/api"
	catalogrepo "onlineretail/internal/catalog/infrastructure"
	sharedinfra "onlineretail/internal/shared/infrastructure"
	"onlineretail/internal/testhelpers"
)

// listCounter compte les GET /products reçus par le serveur
type listCounter struct {
	next  http.Handler
	lists atomic.Int32
}

func (l *listCounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/products" {
		l.lists.Add(1)
	}
	l.next.ServeHTTP(w, r)
}

func setupServer(t *testing.T) (*Client, *listCounter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)
	server := api.NewServer(
		catalogrepo.NewProductRepository(db),
		sharedinfra.NewMetrics(),
		sharedinfra.NewLogger("error", "text", io.Discard),
	)
	counter := &listCounter{next: server.Handler()}

	ts := httptest.NewServer(counter)
	t.Cleanup(ts.Close)

	return New(ts.URL+"/", WithHTTPClient(ts.Client())), counter
}

func TestClient_CRUD(t *testing.T) {
	c, _ := setupServer(t)
	ctx := context.Background()

	products, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	require.NoError(t, c.Create(ctx, Product{StockCode: "A1", Description: "Mug", UnitPrice: 9.99}))

	p, err := c.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, Product{StockCode: "A1", Description: "Mug", UnitPrice: 9.99}, *p)

	require.NoError(t, c.Update(ctx, "A1", "Mug v2", 12.5))
	p, err = c.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Mug v2", p.Description)
	assert.Equal(t, 12.5, p.UnitPrice)

	require.NoError(t, c.Delete(ctx, "A1"))
	_, err = c.Get(ctx, "A1")
	assert.True(t, IsNotFound(err))
}

func TestClient_ErrorsCarryStatusAndMessage(t *testing.T) {
	c, _ := setupServer(t)
	ctx := context.Background()

	err := c.Create(ctx, Product{StockCode: "A1", UnitPrice: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid product data")

	err = c.Delete(ctx, "ZZZ")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestView_RefetchesAfterEachMutation(t *testing.T) {
	c, counter := setupServer(t)
	ctx := context.Background()
	v := NewView(c)

	require.NoError(t, v.Refresh(ctx))
	assert.Equal(t, int32(1), counter.lists.Load())

	require.NoError(t, v.Create(ctx, Product{StockCode: "A1", Description: "Mug", UnitPrice: 9.99}))
	assert.Equal(t, int32(2), counter.lists.Load())
	require.Len(t, v.Products(), 1)

	require.NoError(t, v.Update(ctx, "A1", "Mug v2", 12.5))
	assert.Equal(t, int32(3), counter.lists.Load())
	assert.Equal(t, "Mug v2", v.Products()[0].Description)

	require.NoError(t, v.Delete(ctx, "A1"))
	assert.Equal(t, int32(4), counter.lists.Load())
	assert.Empty(t, v.Products())
}

func TestView_FailedMutationDoesNotRefetch(t *testing.T) {
	c, counter := setupServer(t)
	ctx := context.Background()
	v := NewView(c)

	require.NoError(t, v.Refresh(ctx))
	assert.Error(t, v.Delete(ctx, "ZZZ"))
	assert.Equal(t, int32(1), counter.lists.Load())
}

func TestView_Visible(t *testing.T) {
	v := &View{products: []Product{
		{StockCode: "85123A", Description: "WHITE HANGING HEART", UnitPrice: 2.55},
		{StockCode: "71053", Description: "White Metal Lantern", UnitPrice: 3.39},
		{StockCode: "22633", Description: "HAND WARMER", UnitPrice: 12.5},
	}}

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"85123A", "71053", "22633"}},
		{"white", []string{"85123A", "71053"}},
		{"85123a", []string{"85123A"}},
		{"12.5", []string{"22633"}},
		{"3.3", []string{"71053"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			v.SetFilter(tt.filter)
			got := []string{}
			for _, p := range v.Visible() {
				got = append(got, p.StockCode)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "9.99", FormatPrice(9.99))
	assert.Equal(t, "12.5", FormatPrice(12.5))
	assert.Equal(t, "3", FormatPrice(3))
}
