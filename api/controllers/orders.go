package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cartworks/storefront-backend/api/middleware"
	"github.com/cartworks/storefront-backend/api/responses"
	"github.com/cartworks/storefront-backend/api/validators"
	ordersvc "github.com/cartworks/storefront-backend/internal/orders"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/logger"
	"github.com/cartworks/storefront-backend/pkg/pagination"
	"github.com/cartworks/storefront-backend/pkg/types"
)

// GetOrder serves one of the caller's orders with its line items.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// ListOrders serves one page of the caller's order history, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

type orderItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	UnitPrice   int64      `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	LineTotal   int64      `json:"line_total"`
}

type orderResponse struct {
	ID              uuid.UUID             `json:"id"`
	Status          string                `json:"status"`
	SubtotalAmount  int64                 `json:"subtotal_amount"`
	ShippingFee     int64                 `json:"shipping_fee"`
	TotalAmount     int64                 `json:"total_amount"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Note            *string               `json:"note,omitempty"`
	Items           []orderItemResponse   `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	return orderResponse{
		ID:              order.ID,
		Status:          string(order.Status),
		SubtotalAmount:  order.SubtotalAmount,
		ShippingFee:     order.ShippingFee,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		Note:            order.Note,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func newOrderListResponse(list *ordersvc.OrderList) orderListResponse {
	orders := make([]orderResponse, 0, len(list.Orders))
	for i := range list.Orders {
		orders = append(orders, newOrderResponse(&list.Orders[i]))
	}
	return orderListResponse{Orders: orders, NextCursor: list.NextCursor}
}
