package models

import (
	"time"

	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartSession tracks one shopper's cart, keyed by the cookie token.
type CartSession struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionToken   string             `gorm:"column:session_token;not null;uniqueIndex"`
	State          enums.CartState    `gorm:"column:state;not null;default:'anonymous'"`
	UserID         *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	CheckoutID     *string            `gorm:"column:checkout_id"`
	CheckoutToken  *string            `gorm:"column:checkout_token"`
	CheckoutURL    *string            `gorm:"column:checkout_url"`
	Subtotal       decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal    `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal    `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	DiscountCodes  dbtypes.StringList `gorm:"column:discount_codes;type:jsonb;not null"`
	IsActive       bool               `gorm:"column:is_active;not null"`
	ExpiresAt      time.Time          `gorm:"column:expires_at;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	Items []CartLineItem `gorm:"foreignKey:CartID;references:ID"`
}

func (CartSession) TableName() string { return "cart_sessions" }

func (c *CartSession) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.State == "" {
		c.State = enums.CartStateAnonymous
	}
	if c.DiscountCodes == nil {
		c.DiscountCodes = dbtypes.StringList{}
	}
	return nil
}

// Claim attaches userID to an anonymous cart. A claimed cart keeps its first
// owner; the return value reports whether anything changed.
func (c *CartSession) Claim(userID uuid.UUID) bool {
	if userID == uuid.Nil || c.State == enums.CartStateClaimed {
		return false
	}
	id := userID
	c.UserID = &id
	c.State = enums.CartStateClaimed
	return true
}

// HasCheckout reports whether a remote checkout is linked.
func (c CartSession) HasCheckout() bool {
	return c.CheckoutToken != nil && *c.CheckoutToken != ""
}

// LinkCheckout records the remote checkout identifiers.
func (c *CartSession) LinkCheckout(id, token, webURL string) {
	c.CheckoutID = nullable(id)
	c.CheckoutToken = nullable(token)
	c.CheckoutURL = nullable(webURL)
}

// Reset empties the money fields, codes and checkout link.
func (c *CartSession) Reset() {
	c.Subtotal = decimal.Zero
	c.TaxAmount = decimal.Zero
	c.ShippingAmount = decimal.Zero
	c.DiscountAmount = decimal.Zero
	c.TotalAmount = decimal.Zero
	c.DiscountCodes = dbtypes.StringList{}
	c.CheckoutID = nil
	c.CheckoutToken = nil
	c.CheckoutURL = nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
