package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/pagination"
)

type stubProductRepo struct {
	listItems  []models.Product
	listCursor *pagination.Cursor
	listErr    error
	byID       map[uuid.UUID]*models.Product
	findErr    error
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return s.listItems, s.listCursor, s.listErr
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	return false, nil
}

func TestServiceListProductsEncodesCursor(t *testing.T) {
	cursorID := uuid.New()
	repo := &stubProductRepo{
		listItems:  []models.Product{{ID: uuid.New(), Name: "Desk Lamp"}},
		listCursor: &pagination.Cursor{ID: cursorID},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	list, err := svc.ListProducts(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	require.NotEmpty(t, list.NextCursor)

	parsed, err := pagination.ParseCursor(list.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, cursorID, parsed.ID)
}

func TestServiceListProductsRejectsUnknownCategory(t *testing.T) {
	svc, err := NewService(&stubProductRepo{})
	require.NoError(t, err)

	bogus := enums.ProductCategory("vehicles")
	_, err = svc.ListProducts(context.Background(), ListQuery{Category: &bogus})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceGetProductHidesInactive(t *testing.T) {
	inactive := &models.Product{ID: uuid.New(), Name: "Retired Lamp", IsActive: false}
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{inactive.ID: inactive}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), inactive.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceGetProductReturnsNotFoundForMissing(t *testing.T) {
	svc, err := NewService(&stubProductRepo{byID: map[uuid.UUID]*models.Product{}})
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceGetProductReturnsActive(t *testing.T) {
	active := &models.Product{ID: uuid.New(), Name: "Keyboard", IsActive: true, Price: 45000}
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{active.ID: active}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.Name, got.Name)
	assert.Equal(t, int64(45000), got.Price)
}
