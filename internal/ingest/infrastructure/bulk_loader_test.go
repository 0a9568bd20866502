package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "onlineretail/internal/catalog/domain"
	"onlineretail/internal/ingest/domain"
	salesdomain "onlineretail/internal/sales/domain"
	shareddomain "onlineretail/internal/shared/domain"
	"onlineretail/internal/testhelpers"
)

// batchBuilder prépare un batch sans passer par le normalizer
type batchBuilder struct {
	t     *testing.T
	batch *domain.Batch
}

func newBatch(t *testing.T) *batchBuilder {
	return &batchBuilder{t: t, batch: domain.NewBatch()}
}

func (b *batchBuilder) customer(id, country string) *batchBuilder {
	c, err := salesdomain.NewCustomer(salesdomain.CustomerID(id), country)
	require.NoError(b.t, err)
	b.batch.Customers.PutIfAbsent(c.ID(), c)
	return b
}

func (b *batchBuilder) product(code, description, price string) *batchBuilder {
	money, err := shareddomain.ParseMoney(price)
	require.NoError(b.t, err)
	p, err := catalogdomain.NewProduct(catalogdomain.StockCode(code), description, money)
	require.NoError(b.t, err)
	b.batch.Products.PutIfAbsent(p.StockCode(), p)
	return b
}

func (b *batchBuilder) invoice(no, customerID string, date time.Time, items ...salesdomain.LineItem) *batchBuilder {
	inv, err := salesdomain.NewInvoice(salesdomain.InvoiceNo(no), salesdomain.CustomerID(customerID), date)
	require.NoError(b.t, err)
	for _, item := range items {
		inv.AddItem(item)
	}
	b.batch.Invoices.PutIfAbsent(inv.InvoiceNo(), inv)
	return b
}

func item(code string, qty int, price string) salesdomain.LineItem {
	money, _ := shareddomain.ParseMoney(price)
	return salesdomain.NewLineItem(catalogdomain.StockCode(code), qty, money)
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func storedItems(t *testing.T, db *sql.DB, invoiceNo string) ([]salesdomain.LineItem, time.Time) {
	t.Helper()
	var (
		raw  string
		date time.Time
	)
	require.NoError(t, db.QueryRow(
		`SELECT items, invoice_date FROM invoices WHERE invoice_no = $1`, invoiceNo,
	).Scan(&raw, &date))

	var items []salesdomain.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items, date
}

var invoiceDate = time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)

func TestBulkLoader_InsertsAllEntities(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	loader := NewBulkLoader(db)

	batch := newBatch(t).
		customer("17850", "United Kingdom").
		product("85123A", "WHITE HANGING HEART", "2.55").
		product("71053", "WHITE METAL LANTERN", "3.39").
		invoice("536365", "17850", invoiceDate, item("85123A", 6, "2.55"), item("71053", 6, "3.39")).
		batch

	require.NoError(t, loader.Load(context.Background(), batch))

	assert.Equal(t, 1, count(t, db, "customers"))
	assert.Equal(t, 2, count(t, db, "products"))
	assert.Equal(t, 1, count(t, db, "invoices"))

	items, date := storedItems(t, db, "536365")
	require.Len(t, items, 2)
	assert.Equal(t, "85123A", string(items[0].ProductID()))
	assert.Equal(t, "71053", string(items[1].ProductID()))
	assert.True(t, date.Equal(invoiceDate))
}

func TestBulkLoader_CustomersAndProductsKeepFirstValues(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	loader := NewBulkLoader(db)
	ctx := context.Background()

	first := newBatch(t).customer("17850", "United Kingdom").product("85123A", "ORIGINAL", "2.55").batch
	require.NoError(t, loader.Load(ctx, first))

	second := newBatch(t).customer("17850", "France").product("85123A", "CHANGED", "9.99").batch
	require.NoError(t, loader.Load(ctx, second))

	var country, description string
	var price float64
	require.NoError(t, db.QueryRow(`SELECT country FROM customers WHERE id = $1`, "17850").Scan(&country))
	require.NoError(t, db.QueryRow(`SELECT description, unit_price FROM products WHERE stock_code = $1`, "85123A").Scan(&description, &price))

	assert.Equal(t, "United Kingdom", country)
	assert.Equal(t, "ORIGINAL", description)
	assert.InDelta(t, 2.55, price, 1e-9)
}

func TestBulkLoader_InvoiceLastLoadWins(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	loader := NewBulkLoader(db)
	ctx := context.Background()

	first := newBatch(t).
		customer("17850", "United Kingdom").
		invoice("536365", "17850", invoiceDate, item("85123A", 6, "2.55"), item("71053", 6, "3.39")).
		batch
	require.NoError(t, loader.Load(ctx, first))

	later := invoiceDate.Add(24 * time.Hour)
	second := newBatch(t).
		customer("17850", "United Kingdom").
		invoice("536365", "17850", later, item("22633", 1, "1.85")).
		batch
	require.NoError(t, loader.Load(ctx, second))

	assert.Equal(t, 1, count(t, db, "invoices"))
	items, date := storedItems(t, db, "536365")
	require.Len(t, items, 1)
	assert.Equal(t, "22633", string(items[0].ProductID()))
	assert.True(t, date.Equal(later))
}

func TestBulkLoader_RollsBackOnFailure(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	loader := NewBulkLoader(db)

	// Sans table invoices, la dernière étape échoue: clients et produits doivent être annulés
	_, err := db.Exec(`DROP TABLE invoices`)
	require.NoError(t, err)

	batch := newBatch(t).
		customer("17850", "United Kingdom").
		product("85123A", "WHITE HANGING HEART", "2.55").
		invoice("536365", "17850", invoiceDate, item("85123A", 6, "2.55")).
		batch

	err = loader.Load(context.Background(), batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert invoice 536365")

	assert.Equal(t, 0, count(t, db, "customers"))
	assert.Equal(t, 0, count(t, db, "products"))
}

func TestBulkLoader_EmptyBatch(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)

	require.NoError(t, NewBulkLoader(db).Load(context.Background(), domain.NewBatch()))
	assert.Equal(t, 0, count(t, db, "invoices"))
}
