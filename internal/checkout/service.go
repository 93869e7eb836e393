package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/internal/cart"
	"github.com/cartworks/storefront-backend/internal/orders"
	"github.com/cartworks/storefront-backend/internal/products"
	"github.com/cartworks/storefront-backend/pkg/config"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/logger"
	"github.com/cartworks/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PlaceOrderInput captures the checkout payload.
type PlaceOrderInput struct {
	ShippingAddress types.ShippingAddress
	Note            *string
}

// Service turns a cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	cartRepo    cart.Repository
	productRepo products.Repository
	orderRepo   orders.Repository
	tx          txRunner
	cfg         config.CheckoutConfig
	logg        *logger.Logger
}

// NewService builds the checkout service.
func NewService(cartRepo cart.Repository, productRepo products.Repository, orderRepo orders.Repository, tx txRunner, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		tx:          tx,
		cfg:         cfg,
		logg:        logg,
	}, nil
}

// PlaceOrder validates the cart, freezes prices, writes the order header and
// line items, decrements stock, and clears the purchased cart lines. The
// whole sequence runs in one transaction; any failure rolls everything back.
func (s *service) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*models.Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if field := input.ShippingAddress.Validate(); field != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"field": field})
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		lines, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		// Re-read products inside the transaction so pricing and stock
		// checks see current rows, not the preloaded cart snapshot.
		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		fresh, err := productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		catalog := make(map[uuid.UUID]*models.Product, len(fresh))
		for i := range fresh {
			catalog[fresh[i].ID] = &fresh[i]
		}

		valid, shortages := partitionLines(lines, catalog)
		if len(shortages) > 0 {
			return cart.InsufficientStock(shortages)
		}
		if len(valid) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		priced := make([]PricedLine, 0, len(valid))
		for _, line := range valid {
			priced = append(priced, PricedLine{Quantity: line.Quantity, UnitPrice: line.Product.Price})
		}
		totals := ComputeTotals(priced, s.cfg)

		order = &models.Order{
			ID:              uuid.New(),
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			SubtotalAmount:  totals.Subtotal,
			ShippingFee:     totals.ShippingFee,
			TotalAmount:     totals.Total,
			ShippingAddress: input.ShippingAddress,
			Note:            input.Note,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(valid))
		orderedProducts := make([]uuid.UUID, 0, len(valid))
		for _, line := range valid {
			productID := line.Product.ID
			items = append(items, models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: line.Product.Name,
				UnitPrice:   line.Product.Price,
				Quantity:    line.Quantity,
				LineTotal:   LineTotal(line.Quantity, line.Product.Price),
			})
			orderedProducts = append(orderedProducts, productID)
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items

		// Conditional decrements catch writers that got in between the
		// stock read above and this update.
		for _, line := range valid {
			ok, err := productRepo.DecrementStock(ctx, line.Product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return cart.InsufficientStock([]cart.StockShortage{{
					ProductID:   line.Product.ID,
					ProductName: line.Product.Name,
					Requested:   line.Quantity,
					Available:   line.Product.StockQuantity,
				}})
			}
		}

		if err := cartRepo.DeleteByUserAndProducts(ctx, userID, orderedProducts); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		doneCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":     order.ID.String(),
			"total_amount": order.TotalAmount,
			"line_count":   len(order.Items),
		})
		s.logg.Info(doneCtx, "checkout.order.placed")
	}
	return order, nil
}

// partitionLines splits cart rows into orderable lines and stock shortages
// using the transaction's view of the catalog. Lines whose product vanished
// or went inactive are dropped, matching the cart view.
func partitionLines(lines []models.CartItem, catalog map[uuid.UUID]*models.Product) ([]models.CartItem, []cart.StockShortage) {
	valid := make([]models.CartItem, 0, len(lines))
	var shortages []cart.StockShortage
	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok || !product.IsActive {
			continue
		}
		if line.Quantity > product.StockQuantity {
			shortages = append(shortages, cart.StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.StockQuantity,
			})
			continue
		}
		line.Product = product
		valid = append(valid, line)
	}
	return valid, shortages
}
