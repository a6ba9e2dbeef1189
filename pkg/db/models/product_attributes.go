package models

import (
	"time"

	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nutrition is the per-serving panel shown on product pages.
type Nutrition struct {
	ProteinGrams int    `json:"protein_g"`
	CarbsGrams   int    `json:"carbs_g"`
	FatGrams     int    `json:"fat_g"`
	Calories     int    `json:"calories"`
	ServingSize  string `json:"serving_size"`
	IsKeto       bool   `json:"is_keto"`
	IsGlutenFree bool   `json:"is_gluten_free"`
	SugarGrams   *int   `json:"sugar_g,omitempty"`
	SodiumMg     *int   `json:"sodium_mg,omitempty"`
}

// DefaultNutrition is used for products without an explicit panel.
func DefaultNutrition() Nutrition {
	return Nutrition{
		ProteinGrams: 18,
		CarbsGrams:   3,
		FatGrams:     5,
		Calories:     120,
		ServingSize:  "1.5 oz",
		IsKeto:       true,
		IsGlutenFree: true,
	}
}

// ProductAttributes holds merchandising metadata the commerce platform does not model.
type ProductAttributes struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopifyProductID int64              `gorm:"column:shopify_product_id;not null;uniqueIndex"`
	Flavor           *string            `gorm:"column:flavor"`
	PackSizes        dbtypes.StringList `gorm:"column:pack_sizes;type:jsonb;not null"`
	IsBestseller     bool               `gorm:"column:is_bestseller;not null;default:false"`
	IsAwardWinning   bool               `gorm:"column:is_award_winning;not null;default:false"`
	Nutrition        *Nutrition         `gorm:"column:nutrition;type:jsonb;serializer:json"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductAttributes) TableName() string { return "product_attributes" }

func (p *ProductAttributes) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PackSizes == nil {
		p.PackSizes = dbtypes.StringList{}
	}
	return nil
}
