package controllers

import (
	"net/http"

	"github.com/cartworks/storefront-backend/api/middleware"
	"github.com/cartworks/storefront-backend/api/responses"
	"github.com/cartworks/storefront-backend/api/validators"
	checkoutsvc "github.com/cartworks/storefront-backend/internal/checkout"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/logger"
	"github.com/cartworks/storefront-backend/pkg/types"
)

// Checkout turns the caller's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID, checkoutsvc.PlaceOrderInput{
			ShippingAddress: payload.ShippingAddress,
			Note:            payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type checkoutRequest struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	Note            *string               `json:"note,omitempty" validate:"omitempty,max=500"`
}
