package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "onlineretail/internal/shared/domain"
)

func TestNewProduct(t *testing.T) {
	price, err := shareddomain.ParseMoney("2.55")
	require.NoError(t, err)

	p, err := NewProduct("85123A", "", price)
	require.NoError(t, err)
	assert.Equal(t, StockCode("85123A"), p.StockCode())
	assert.Equal(t, "", p.Description())
	assert.True(t, p.UnitPrice().Equal(price))
}

func TestNewProduct_EmptyStockCode(t *testing.T) {
	_, err := NewProduct("", "Widget", shareddomain.ZeroMoney)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "stock_code", verr.Field)
}
