package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one cart line at order time. ProductName and
// UnitPrice are denormalized copies; catalog edits after placement do
// not reach back into them.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName string     `gorm:"column:product_name;not null"`
	UnitPrice   int64      `gorm:"column:unit_price;not null"`
	Quantity    int        `gorm:"column:quantity;not null"`
	LineTotal   int64      `gorm:"column:line_total;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
