package models

import "time"

// User mirrors an identity-provider account. The primary key is the
// provider's opaque subject, not a local uuid: every user-scoped row
// in the schema hangs off this value.
type User struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Email       string    `gorm:"column:email;not null"`
	DisplayName string    `gorm:"column:display_name;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
