package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/pkg/db"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/logger"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddItemInput captures the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CartLine is one cart row joined with its product. Unavailable marks lines
// that cannot be purchased as-is (inactive product or not enough stock); they
// stay visible but do not count toward the subtotal.
type CartLine struct {
	ID          uuid.UUID      `json:"id"`
	Product     models.Product `json:"product"`
	Quantity    int            `json:"quantity"`
	LineTotal   int64          `json:"line_total"`
	Unavailable bool           `json:"unavailable"`
}

// CartView is the rendered cart: lines plus a subtotal over purchasable lines.
type CartView struct {
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// Service exposes cart operations for one authenticated user.
type Service interface {
	AddItem(ctx context.Context, userID string, input AddItemInput) (*models.CartItem, error)
	UpdateItem(ctx context.Context, userID string, lineID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID string, lineID uuid.UUID) error
	GetCart(ctx context.Context, userID string) (*CartView, error)
	CountItems(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo     Repository
	products productLoader
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

// AddItem inserts a new line or increments an existing one after stock checks.
func (s *service) AddItem(ctx context.Context, userID string, input AddItemInput) (*models.CartItem, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	requested := input.Quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.StockQuantity {
		return nil, insufficientStockError([]StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   requested,
			Available:   product.StockQuantity,
		}})
	}

	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, requested); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		existing.Quantity = requested
		return existing, nil
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "ux_cart_items_user_product") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item was added concurrently, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return item, nil
}

// UpdateItem changes a line's quantity. Zero or negative quantity removes the line.
func (s *service) UpdateItem(ctx context.Context, userID string, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	item, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.Delete(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return nil, nil
	}

	product, err := s.loadProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, insufficientStockError([]StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}})
	}

	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem deletes a line owned by the caller.
func (s *service) RemoveItem(ctx context.Context, userID string, lineID uuid.UUID) error {
	item, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// GetCart joins lines with products. Lines whose product disappeared are
// dropped from the view; the subtotal counts only active, in-stock lines.
func (s *service) GetCart(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		if item.Product == nil {
			if s.logg != nil {
				warnCtx := s.logg.WithFields(ctx, map[string]any{
					"cart_item_id": item.ID.String(),
					"product_id":   item.ProductID.String(),
				})
				s.logg.Warn(warnCtx, "cart.line.orphaned")
			}
			continue
		}

		purchasable := item.Product.IsActive && item.Product.StockQuantity >= item.Quantity
		line := CartLine{
			ID:          item.ID,
			Product:     *item.Product,
			Quantity:    item.Quantity,
			LineTotal:   item.Product.Price * int64(item.Quantity),
			Unavailable: !purchasable,
		}
		view.Items = append(view.Items, line)

		if purchasable {
			view.Subtotal += line.LineTotal
		}
	}
	return view, nil
}

// CountItems returns the number of cart lines for the user.
func (s *service) CountItems(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart lines")
	}
	return count, nil
}

func (s *service) ownedLine(ctx context.Context, userID string, lineID uuid.UUID) (*models.CartItem, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	item, err := s.repo.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if item.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
	}
	return item, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}
