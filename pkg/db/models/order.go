package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartworks/storefront-backend/pkg/enums"
	"github.com/cartworks/storefront-backend/pkg/types"
)

// Order is the header row created at checkout. TotalAmount is always
// subtotal + shipping fee at the instant of placement; the shipping
// address is a frozen snapshot, immune to later profile edits.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          string                `gorm:"column:user_id;not null;index"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	SubtotalAmount  int64                 `gorm:"column:subtotal_amount;not null"`
	ShippingFee     int64                 `gorm:"column:shipping_fee;not null"`
	TotalAmount     int64                 `gorm:"column:total_amount;not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Note            *string               `gorm:"column:note"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
