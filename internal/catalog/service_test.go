package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

func setupCatalogService(t *testing.T) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'usd',
  stock_qty INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestCreateProductAndFetch(t *testing.T) {
	svc := setupCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SellerID:   uuid.New(),
		Name:       "widget",
		PriceCents: 1999,
		StockQty:   5,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.Active)

	fetched, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", fetched.Name)
	assert.Equal(t, int64(1999), fetched.PriceCents)
}

func TestCreateProductValidation(t *testing.T) {
	svc := setupCatalogService(t)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SellerID:   uuid.New(),
		Name:       "widget",
		PriceCents: 0,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetProductNotFound(t *testing.T) {
	svc := setupCatalogService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateProductPatchesOnlyProvidedFields(t *testing.T) {
	svc := setupCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SellerID:   uuid.New(),
		Name:       "widget",
		PriceCents: 1999,
		StockQty:   5,
	})
	require.NoError(t, err)

	newPrice := int64(2499)
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		PriceCents: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2499), updated.PriceCents)
	assert.Equal(t, "widget", updated.Name)
	assert.Equal(t, 5, updated.StockQty)
}

func TestDeleteProductRemovesFromListing(t *testing.T) {
	svc := setupCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SellerID:   uuid.New(),
		Name:       "widget",
		PriceCents: 1999,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	_, err = svc.GetProduct(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
