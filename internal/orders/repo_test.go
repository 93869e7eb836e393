package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/enums"
	"github.com/cartworks/storefront-backend/pkg/pagination"
	"github.com/cartworks/storefront-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal_amount INTEGER NOT NULL,
  shipping_fee INTEGER NOT NULL,
  total_amount INTEGER NOT NULL,
  shipping_address TEXT NOT NULL,
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  unit_price INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func testAddress() types.ShippingAddress {
	return types.ShippingAddress{
		RecipientName: "Jordan Doe",
		Phone:         "010-1234-5678",
		PostalCode:    "04524",
		AddressLine1:  "12 Market Street",
	}
}

func TestRepositoryCreatePersistsOrderWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          "user-1",
		Status:          enums.OrderStatusPending,
		SubtotalAmount:  30000,
		ShippingFee:     3000,
		TotalAmount:     33000,
		ShippingAddress: testAddress(),
	}
	require.NoError(t, repo.Create(ctx, order))

	productID := uuid.New()
	items := []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: &productID, ProductName: "Desk Lamp", UnitPrice: 15000, Quantity: 2, LineTotal: 30000},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, enums.OrderStatusPending, stored.Status)
	assert.Equal(t, int64(33000), stored.TotalAmount)
	assert.Equal(t, "Jordan Doe", stored.ShippingAddress.RecipientName)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Desk Lamp", stored.Items[0].ProductName)
	assert.Equal(t, int64(30000), stored.Items[0].LineTotal)
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, total int64, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, user_id, status, subtotal_amount, shipping_fee, total_amount, shipping_address, created_at, updated_at)
		 VALUES (?, ?, 'pending', ?, 0, ?, '{"recipient_name":"Jordan Doe","phone":"010","postal_code":"04524","address_line1":"12 Market Street"}', ?, ?)`,
		id.String(), userID, total, total, createdAt, createdAt,
	).Error)
	return id
}

func TestRepositoryListByUserOrdersNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	oldest := seedOrder(t, db, "user-1", 10000, base)
	newest := seedOrder(t, db, "user-1", 20000, base.Add(time.Hour))
	seedOrder(t, db, "user-2", 99000, base.Add(2*time.Hour))

	orders, next, err := repo.ListByUser(ctx, "user-1", pagination.Params{})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, orders, 2)
	assert.Equal(t, newest, orders[0].ID)
	assert.Equal(t, oldest, orders[1].ID)
}

func TestRepositoryListByUserPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		ids = append(ids, seedOrder(t, db, "user-1", int64(1000*(i+1)), base.Add(time.Duration(i)*time.Minute)))
	}

	first, next, err := repo.ListByUser(ctx, "user-1", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, first, 2)
	assert.Equal(t, ids[3], first[0].ID)
	assert.Equal(t, ids[2], first[1].ID)

	second, _, err := repo.ListByUser(ctx, "user-1", pagination.Params{
		Limit:  2,
		Cursor: pagination.EncodeCursor(*next),
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, ids[1], second[0].ID)
	assert.Equal(t, ids[0], second[1].ID)
}
