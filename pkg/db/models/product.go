package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/cartworks/storefront-backend/pkg/enums"
)

// Product is the canonical catalog listing. Price and stock are the
// single source of truth consulted before any cart or order write.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Description   *string               `gorm:"column:description"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	Price         int64                 `gorm:"column:price;not null"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	ImageURLs     pq.StringArray        `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
