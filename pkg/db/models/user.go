package models

import (
	"time"

	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered shopper or admin.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash      string         `gorm:"column:password_hash;not null"`
	FirstName         string         `gorm:"column:first_name;not null"`
	LastName          string         `gorm:"column:last_name;not null"`
	Phone             *string        `gorm:"column:phone"`
	Role              enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	IsActive          bool           `gorm:"column:is_active;not null"`
	ShopifyCustomerID *int64         `gorm:"column:shopify_customer_id"`
	LastLoginAt       *time.Time     `gorm:"column:last_login_at"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = enums.UserRoleCustomer
	}
	return nil
}

// IsAdmin reports whether the user may use admin endpoints.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}
