package product

import (
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/shopspring/decimal"
)

const (
	defaultVendor      = "Chyler's Hawaiian Beef Chips"
	defaultProductType = "Beef Chips"
)

// ListParams filters the public product listing.
type ListParams struct {
	Limit            int
	CollectionHandle string
	Flavor           string
	PackSize         string
}

// VariantView is a purchasable option of a product.
type VariantView struct {
	ID                int64               `json:"id"`
	ProductID         int64               `json:"product_id"`
	Title             string              `json:"title"`
	Price             decimal.Decimal     `json:"price"`
	CompareAtPrice    decimal.NullDecimal `json:"compare_at_price"`
	SKU               string              `json:"sku,omitempty"`
	Option1           string              `json:"option1,omitempty"`
	Option2           string              `json:"option2,omitempty"`
	InventoryQuantity int                 `json:"inventory_quantity"`
	Weight            float64             `json:"weight,omitempty"`
	WeightUnit        string              `json:"weight_unit"`
}

// ProductView is a Shopify product merged with local merchandising attributes.
type ProductView struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Handle         string           `json:"handle"`
	BodyHTML       string           `json:"body_html,omitempty"`
	Vendor         string           `json:"vendor"`
	ProductType    string           `json:"product_type"`
	Tags           []string         `json:"tags"`
	Variants       []VariantView    `json:"variants"`
	Images         []shopify.Image  `json:"images"`
	CreatedAt      *time.Time       `json:"created_at,omitempty"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
	Flavor         *string          `json:"flavor"`
	PackSizes      []string         `json:"pack_sizes"`
	NutritionInfo  models.Nutrition `json:"nutrition_info"`
	IsAwardWinning bool             `json:"is_award_winning"`
	IsBestseller   bool             `json:"is_bestseller"`
}

// AttributesInput is the admin partial update for a product's attributes.
type AttributesInput struct {
	Flavor         *string           `json:"flavor,omitempty" validate:"omitempty,max=100"`
	PackSizes      *[]string         `json:"pack_sizes,omitempty"`
	IsBestseller   *bool             `json:"is_bestseller,omitempty"`
	IsAwardWinning *bool             `json:"is_award_winning,omitempty"`
	Nutrition      *models.Nutrition `json:"nutrition,omitempty"`
}

// AttributesView is the stored attribute row.
type AttributesView struct {
	ShopifyProductID int64            `json:"shopify_product_id"`
	Flavor           *string          `json:"flavor"`
	PackSizes        []string         `json:"pack_sizes"`
	IsBestseller     bool             `json:"is_bestseller"`
	IsAwardWinning   bool             `json:"is_award_winning"`
	Nutrition        models.Nutrition `json:"nutrition"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SyncResult reports the outcome of an admin product sync.
type SyncResult struct {
	Message           string `json:"message"`
	Count             int    `json:"count"`
	AttributesCreated int    `json:"attributes_created"`
}

func newAttributesView(row *models.ProductAttributes) *AttributesView {
	nutrition := models.DefaultNutrition()
	if row.Nutrition != nil {
		nutrition = *row.Nutrition
	}
	return &AttributesView{
		ShopifyProductID: row.ShopifyProductID,
		Flavor:           row.Flavor,
		PackSizes:        append([]string{}, row.PackSizes...),
		IsBestseller:     row.IsBestseller,
		IsAwardWinning:   row.IsAwardWinning,
		Nutrition:        nutrition,
		UpdatedAt:        row.UpdatedAt,
	}
}
