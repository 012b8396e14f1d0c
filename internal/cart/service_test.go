package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/catalog"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	products := `
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
	require.NoError(t, db.Exec(cartItems).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func setupCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(db),
		ProductRepo: catalog.NewRepository(db),
	})
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Name:       "widget",
		PriceCents: 1999,
		StockQty:   10,
		Active:     true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	svc, db := setupCartService(t)
	product := seedProduct(t, db)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID, 2))
	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID, 3))

	items, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := setupCartService(t)

	err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := setupCartService(t)
	product := seedProduct(t, db)

	err := svc.AddItem(context.Background(), uuid.New(), product.ID, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc, db := setupCartService(t)
	product := seedProduct(t, db)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID, 2))
	require.NoError(t, svc.SetQuantity(context.Background(), userID, product.ID, 7))

	items, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, db := setupCartService(t)
	product := seedProduct(t, db)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID, 2))
	require.NoError(t, svc.SetQuantity(context.Background(), userID, product.ID, 0))

	items, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetQuantityMissingLine(t *testing.T) {
	svc, db := setupCartService(t)
	product := seedProduct(t, db)

	err := svc.SetQuantity(context.Background(), uuid.New(), product.ID, 3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestClearEmptiesCart(t *testing.T) {
	svc, db := setupCartService(t)
	first := seedProduct(t, db)
	second := seedProduct(t, db)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, first.ID, 1))
	require.NoError(t, svc.AddItem(context.Background(), userID, second.ID, 1))
	require.NoError(t, svc.Clear(context.Background(), userID))

	items, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
