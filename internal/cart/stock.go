package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
)

// StockShortage describes one product that cannot satisfy the requested quantity.
type StockShortage struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

// insufficientStockError aggregates every offending line into a single conflict
// so the caller can fix the whole cart in one pass.
func insufficientStockError(shortages []StockShortage) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{"insufficient_stock": shortages})
}

// InsufficientStock exposes the aggregated conflict for sibling packages.
func InsufficientStock(shortages []StockShortage) *pkgerrors.Error {
	return insufficientStockError(shortages)
}
