package application

import (
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onlineretail/internal/ingest/domain"
)

// rowsOf construit une séquence paresseuse à partir de lignes en mémoire
func rowsOf(rows ...domain.Row) iter.Seq2[domain.Row, error] {
	return func(yield func(domain.Row, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func retailRow(invoiceNo, stockCode, description, quantity, date, price, customerID, country string) domain.Row {
	return domain.Row{
		domain.ColumnInvoiceNo:   invoiceNo,
		domain.ColumnStockCode:   stockCode,
		domain.ColumnDescription: description,
		domain.ColumnQuantity:    quantity,
		domain.ColumnInvoiceDate: date,
		domain.ColumnUnitPrice:   price,
		domain.ColumnCustomerID:  customerID,
		domain.ColumnCountry:     country,
	}
}

func TestNormalizer_DropsIncompleteRows(t *testing.T) {
	n := NewNormalizer()

	batch, err := n.Normalize(rowsOf(
		retailRow("", "85123A", "HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
		retailRow("536365", "", "HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
		retailRow("536365", "85123A", "HEART", "6", "12/1/2010 8:26", "2.55", "", "United Kingdom"),
		retailRow("  ", "85123A", "HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
	))
	require.NoError(t, err)

	assert.Equal(t, 0, batch.Customers.Len())
	assert.Equal(t, 0, batch.Products.Len())
	assert.Equal(t, 0, batch.Invoices.Len())
	assert.Equal(t, int64(4), n.Stats().RowsRead)
	assert.Equal(t, int64(4), n.Stats().RowsDropped)
}

func TestNormalizer_FirstProductSightingWins(t *testing.T) {
	n := NewNormalizer()

	batch, err := n.Normalize(rowsOf(
		retailRow("536365", "85123A", "WHITE HANGING HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
		retailRow("536366", "85123A", "CHANGED", "1", "12/1/2010 8:28", "9.99", "17850", "France"),
	))
	require.NoError(t, err)

	require.Equal(t, 1, batch.Products.Len())
	p, ok := batch.Products.Get("85123A")
	require.True(t, ok)
	assert.Equal(t, "WHITE HANGING HEART", p.Description())
	assert.Equal(t, "2.55", p.UnitPrice().String())

	c, ok := batch.Customers.Get("17850")
	require.True(t, ok)
	assert.Equal(t, "United Kingdom", c.Country())
}

func TestNormalizer_GroupsItemsByInvoiceInOrder(t *testing.T) {
	n := NewNormalizer()

	batch, err := n.Normalize(rowsOf(
		retailRow("536365", "85123A", "HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
		retailRow("536366", "22633", "HAND WARMER", "6", "12/1/2010 8:28", "1.85", "17850", "United Kingdom"),
		retailRow("536365", "71053", "LANTERN", "6", "12/1/2010 8:26", "3.39", "17850", "United Kingdom"),
		retailRow("536365", "85123A", "HEART", "2", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"),
	))
	require.NoError(t, err)

	require.Equal(t, 2, batch.Invoices.Len())
	inv, ok := batch.Invoices.Get("536365")
	require.True(t, ok)

	items := inv.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "85123A", string(items[0].ProductID()))
	assert.Equal(t, "71053", string(items[1].ProductID()))
	assert.Equal(t, "85123A", string(items[2].ProductID()))
	assert.Equal(t, 2, items[2].Quantity())
	assert.Equal(t, 4, batch.LineItemCount())
}

func TestNormalizer_CoercesInvalidFields(t *testing.T) {
	n := NewNormalizer()

	batch, err := n.Normalize(rowsOf(
		retailRow("536365", "85123A", "HEART", "lots", "not-a-date", "cheap", "17850", "United Kingdom"),
	))
	require.NoError(t, err)

	inv, ok := batch.Invoices.Get("536365")
	require.True(t, ok)
	assert.True(t, inv.InvoiceDate().Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))

	item := inv.Items()[0]
	assert.Equal(t, 0, item.Quantity())
	assert.True(t, item.UnitPrice().IsZero())

	stats := n.Stats()
	assert.Equal(t, int64(1), stats.DatesDefaulted)
	assert.Equal(t, int64(1), stats.QuantityDefaulted)
	assert.Equal(t, int64(1), stats.PriceDefaulted)
	assert.Equal(t, int64(0), stats.RowsDropped)
}

func TestNormalizer_ReadErrorAbortsRun(t *testing.T) {
	readErr := errors.New("malformed line")
	rows := func(yield func(domain.Row, error) bool) {
		if !yield(retailRow("536365", "85123A", "HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"), nil) {
			return
		}
		yield(nil, readErr)
	}

	batch, err := NewNormalizer().Normalize(rows)
	assert.ErrorIs(t, err, readErr)
	assert.Nil(t, batch)
}
