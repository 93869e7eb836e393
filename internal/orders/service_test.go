package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	byID       map[uuid.UUID]*models.Order
	listOrders []models.Order
	listCursor *pagination.Cursor
	listErr    error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrdersRepo) CreateItems(ctx context.Context, items []models.OrderItem) error { return nil }

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID string, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	return s.listOrders, s.listCursor, s.listErr
}

func TestGetOrderReturnsOwnOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: "user-1", TotalAmount: 33000}
	svc, err := NewService(&stubOrdersRepo{byID: map[uuid.UUID]*models.Order{order.ID: order}})
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(33000), got.TotalAmount)
}

func TestGetOrderHidesForeignOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: "user-2"}
	svc, err := NewService(&stubOrdersRepo{byID: map[uuid.UUID]*models.Order{order.ID: order}})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), "user-1", order.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "order not found", typed.Message())
}

func TestGetOrderMissingMatchesForeignAnswer(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{byID: map[uuid.UUID]*models.Order{}})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), "user-1", uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "order not found", typed.Message())
}

func TestGetOrderRequiresAuth(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), "", uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestListOrdersEncodesCursor(t *testing.T) {
	cursorID := uuid.New()
	repo := &stubOrdersRepo{
		listOrders: []models.Order{{ID: uuid.New(), UserID: "user-1"}},
		listCursor: &pagination.Cursor{ID: cursorID},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	list, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	require.NotEmpty(t, list.NextCursor)

	parsed, err := pagination.ParseCursor(list.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, cursorID, parsed.ID)
}

func TestListOrdersEmptyIsNotAnError(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{})
	require.NoError(t, err)

	list, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, list.Orders)
	assert.Empty(t, list.NextCursor)
}
