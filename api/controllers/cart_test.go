package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartworks/storefront-backend/api/middleware"
	cartsvc "github.com/cartworks/storefront-backend/internal/cart"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
)

type stubCartService struct {
	addItem    func(ctx context.Context, userID string, input cartsvc.AddItemInput) (*models.CartItem, error)
	updateItem func(ctx context.Context, userID string, lineID uuid.UUID, quantity int) (*models.CartItem, error)
	removeItem func(ctx context.Context, userID string, lineID uuid.UUID) error
	getCart    func(ctx context.Context, userID string) (*cartsvc.CartView, error)
	countItems func(ctx context.Context, userID string) (int64, error)
}

func (s *stubCartService) AddItem(ctx context.Context, userID string, input cartsvc.AddItemInput) (*models.CartItem, error) {
	if s.addItem != nil {
		return s.addItem(ctx, userID, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID string, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	if s.updateItem != nil {
		return s.updateItem(ctx, userID, lineID, quantity)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID string, lineID uuid.UUID) error {
	if s.removeItem != nil {
		return s.removeItem(ctx, userID, lineID)
	}
	return nil
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) (*cartsvc.CartView, error) {
	if s.getCart != nil {
		return s.getCart(ctx, userID)
	}
	return &cartsvc.CartView{}, nil
}

func (s *stubCartService) CountItems(ctx context.Context, userID string) (int64, error) {
	if s.countItems != nil {
		return s.countItems(ctx, userID)
	}
	return 0, nil
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), "auth0|buyer"))
}

func TestCartAddItemRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	CartAddItem(&stubCartService{}, nil)(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeUnauthorized), decodeErrorCode(t, rec))
}

func TestCartAddItemCreatesLine(t *testing.T) {
	productID := uuid.New()
	lineID := uuid.New()
	svc := &stubCartService{
		addItem: func(ctx context.Context, userID string, input cartsvc.AddItemInput) (*models.CartItem, error) {
			assert.Equal(t, "auth0|buyer", userID)
			assert.Equal(t, productID, input.ProductID)
			assert.Equal(t, 2, input.Quantity)
			return &models.CartItem{ID: lineID, UserID: userID, ProductID: productID, Quantity: 2}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+productID.String()+`","quantity":2}`)
	rec := httptest.NewRecorder()
	CartAddItem(svc, nil)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data cartItemResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, lineID, envelope.Data.ID)
	assert.Equal(t, 2, envelope.Data.Quantity)
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	req := authedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+uuid.NewString()+`","quantity":0}`)
	rec := httptest.NewRecorder()
	CartAddItem(&stubCartService{}, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, rec))
}

func TestCartUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	lineID := uuid.New()
	svc := &stubCartService{
		updateItem: func(ctx context.Context, userID string, id uuid.UUID, quantity int) (*models.CartItem, error) {
			assert.Equal(t, lineID, id)
			assert.Equal(t, 0, quantity)
			return nil, nil
		},
	}

	router := chi.NewRouter()
	router.Put("/cart/items/{id}", CartUpdateItem(svc, nil))

	req := authedRequest(http.MethodPut, "/cart/items/"+lineID.String(), `{"quantity":0}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "removed", envelope.Data["status"])
}

func TestCartUpdateItemForeignLineForbidden(t *testing.T) {
	svc := &stubCartService{
		updateItem: func(ctx context.Context, userID string, id uuid.UUID, quantity int) (*models.CartItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
		},
	}

	router := chi.NewRouter()
	router.Put("/cart/items/{id}", CartUpdateItem(svc, nil))

	req := authedRequest(http.MethodPut, "/cart/items/"+uuid.NewString(), `{"quantity":3}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeForbidden), decodeErrorCode(t, rec))
}

func TestCartRemoveItemRejectsMalformedID(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/cart/items/{id}", CartRemoveItem(&stubCartService{}, nil))

	req := authedRequest(http.MethodDelete, "/cart/items/not-a-uuid", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartGetRendersView(t *testing.T) {
	svc := &stubCartService{
		getCart: func(ctx context.Context, userID string) (*cartsvc.CartView, error) {
			return &cartsvc.CartView{
				Items: []cartsvc.CartLine{{
					ID:        uuid.New(),
					Product:   models.Product{ID: uuid.New(), Name: "Mug", Price: 12000, StockQuantity: 5, IsActive: true},
					Quantity:  2,
					LineTotal: 24000,
				}},
				Subtotal: 24000,
			}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/cart", "")
	rec := httptest.NewRecorder()
	CartGet(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data cartViewResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, "Mug", envelope.Data.Items[0].Product.Name)
	assert.Equal(t, int64(24000), envelope.Data.Subtotal)
}

func TestCartCountReturnsBadgeCount(t *testing.T) {
	svc := &stubCartService{
		countItems: func(ctx context.Context, userID string) (int64, error) {
			return 3, nil
		},
	}

	req := authedRequest(http.MethodGet, "/cart/count", "")
	rec := httptest.NewRecorder()
	CartCount(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, int64(3), envelope.Data["count"])
}
