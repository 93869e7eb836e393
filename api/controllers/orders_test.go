package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersvc "github.com/cartworks/storefront-backend/internal/orders"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/pagination"
	"github.com/cartworks/storefront-backend/pkg/types"
)

type stubOrdersService struct {
	get  func(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)
	list func(ctx context.Context, userID string, params pagination.Params) (*ordersvc.OrderList, error)
}

func (s *stubOrdersService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	if s.get != nil {
		return s.get(ctx, userID, orderID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrdersService) ListOrders(ctx context.Context, userID string, params pagination.Params) (*ordersvc.OrderList, error) {
	if s.list != nil {
		return s.list(ctx, userID, params)
	}
	return &ordersvc.OrderList{}, nil
}

func TestGetOrderRequiresAuth(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/{id}", GetOrder(&stubOrdersService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrderReturnsOrderWithItems(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	svc := &stubOrdersService{
		get: func(ctx context.Context, userID string, id uuid.UUID) (*models.Order, error) {
			assert.Equal(t, "auth0|buyer", userID)
			assert.Equal(t, orderID, id)
			return &models.Order{
				ID:             orderID,
				UserID:         userID,
				Status:         enums.OrderStatusPending,
				SubtotalAmount: 24000,
				ShippingFee:    3000,
				TotalAmount:    27000,
				ShippingAddress: types.ShippingAddress{
					RecipientName: "Jordan Doe",
					Phone:         "010-1234-5678",
					PostalCode:    "04524",
					AddressLine1:  "100 Sejong-daero",
				},
				Items: []models.OrderItem{{
					ID:          uuid.New(),
					OrderID:     orderID,
					ProductID:   &productID,
					ProductName: "Mug",
					UnitPrice:   12000,
					Quantity:    2,
					LineTotal:   24000,
				}},
			}, nil
		},
	}

	router := chi.NewRouter()
	router.Get("/orders/{id}", GetOrder(svc, nil))

	req := authedRequest(http.MethodGet, "/orders/"+orderID.String(), "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data orderResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "Jordan Doe", envelope.Data.ShippingAddress.RecipientName)
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, "Mug", envelope.Data.Items[0].ProductName)
	assert.Equal(t, int64(24000), envelope.Data.Items[0].LineTotal)
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/{id}", GetOrder(&stubOrdersService{}, nil))

	req := authedRequest(http.MethodGet, "/orders/"+uuid.NewString(), "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), decodeErrorCode(t, rec))
}

func TestListOrdersPassesPaginationThrough(t *testing.T) {
	svc := &stubOrdersService{
		list: func(ctx context.Context, userID string, params pagination.Params) (*ordersvc.OrderList, error) {
			assert.Equal(t, 5, params.Limit)
			assert.Equal(t, "cursor-token", params.Cursor)
			return &ordersvc.OrderList{
				Orders:     []models.Order{{ID: uuid.New(), UserID: userID, Status: enums.OrderStatusPending}},
				NextCursor: "next-token",
			}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/orders?limit=5&cursor=cursor-token", "")
	rec := httptest.NewRecorder()
	ListOrders(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data orderListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Orders, 1)
	assert.Equal(t, "next-token", envelope.Data.NextCursor)
}
