package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineItem snapshots a variant's price and labels when it was added.
type CartLineItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	ShopifyProductID int64           `gorm:"column:shopify_product_id;not null"`
	ShopifyVariantID int64           `gorm:"column:shopify_variant_id;not null"`
	ProductTitle     string          `gorm:"column:product_title;not null"`
	VariantTitle     string          `gorm:"column:variant_title"`
	SKU              string          `gorm:"column:sku"`
	Quantity         int             `gorm:"column:quantity;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	LineTotal        decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	ImageURL         string          `gorm:"column:image_url"`
	Properties       map[string]any  `gorm:"column:properties;type:jsonb;serializer:json"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLineItem) TableName() string { return "cart_line_items" }

func (i *CartLineItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Recalculate sets LineTotal to Price x Quantity.
func (i *CartLineItem) Recalculate() {
	i.LineTotal = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
