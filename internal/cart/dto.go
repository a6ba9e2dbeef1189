package cart

import (
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput is the payload for adding a variant to the cart.
type AddItemInput struct {
	VariantID  int64          `json:"variant_id" validate:"required,gt=0"`
	Quantity   int            `json:"quantity" validate:"gte=1"`
	Properties map[string]any `json:"properties,omitempty"`
}

// UpdateItemInput sets an item's quantity; zero or less removes it.
type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// DiscountInput carries a single discount code.
type DiscountInput struct {
	DiscountCode string `json:"discount_code" validate:"required,max=255"`
}

// ShippingAddressInput is the address shipping rates are quoted for.
type ShippingAddressInput struct {
	Address1     string `json:"address1" validate:"required"`
	City         string `json:"city" validate:"required"`
	Province     string `json:"province" validate:"required"`
	ProvinceCode string `json:"province_code" validate:"required"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip" validate:"required"`
}

// ToShopify fills country defaults and converts to the platform shape.
func (in ShippingAddressInput) ToShopify() shopify.Address {
	country, code := in.Country, in.CountryCode
	if country == "" {
		country = "US"
	}
	if code == "" {
		code = "US"
	}
	return shopify.Address{
		Address1:     in.Address1,
		City:         in.City,
		Province:     in.Province,
		ProvinceCode: in.ProvinceCode,
		Country:      country,
		CountryCode:  code,
		Zip:          in.Zip,
	}
}

// ItemView is a line item as returned to clients.
type ItemView struct {
	ID               uuid.UUID       `json:"id"`
	ShopifyProductID int64           `json:"shopify_product_id"`
	ShopifyVariantID int64           `json:"shopify_variant_id"`
	ProductTitle     string          `json:"product_title"`
	VariantTitle     string          `json:"variant_title,omitempty"`
	SKU              string          `json:"sku,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	ImageURL         string          `json:"image_url,omitempty"`
	Properties       map[string]any  `json:"properties,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// View is the cart as returned to clients.
type View struct {
	ID                     uuid.UUID       `json:"id"`
	SessionID              string          `json:"session_id"`
	State                  enums.CartState `json:"state"`
	UserID                 *uuid.UUID      `json:"user_id,omitempty"`
	CheckoutID             *string         `json:"shopify_checkout_id,omitempty"`
	CheckoutToken          *string         `json:"shopify_checkout_token,omitempty"`
	CheckoutURL            *string         `json:"checkout_url,omitempty"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	ShippingAmount         decimal.Decimal `json:"shipping_amount"`
	DiscountAmount         decimal.Decimal `json:"discount_amount"`
	TotalAmount            decimal.Decimal `json:"total_amount"`
	DiscountCodes          []string        `json:"discount_codes"`
	IsActive               bool            `json:"is_active"`
	ExpiresAt              time.Time       `json:"expires_at"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Items                  []ItemView      `json:"items"`
	ItemsCount             int             `json:"items_count"`
	IsFreeShippingEligible bool            `json:"is_free_shipping_eligible"`
}

// ShippingRatesView wraps assembled rates.
type ShippingRatesView struct {
	ShippingRates []shopify.ShippingRate `json:"shipping_rates"`
}

// CheckoutURLView wraps the hosted checkout link.
type CheckoutURLView struct {
	CheckoutURL string `json:"checkout_url"`
}

func newView(cart *models.CartSession, items []models.CartLineItem, threshold decimal.Decimal) *View {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ID:               item.ID,
			ShopifyProductID: item.ShopifyProductID,
			ShopifyVariantID: item.ShopifyVariantID,
			ProductTitle:     item.ProductTitle,
			VariantTitle:     item.VariantTitle,
			SKU:              item.SKU,
			Quantity:         item.Quantity,
			Price:            item.Price,
			LineTotal:        item.LineTotal,
			ImageURL:         item.ImageURL,
			Properties:       item.Properties,
			CreatedAt:        item.CreatedAt,
			UpdatedAt:        item.UpdatedAt,
		})
	}
	codes := []string(cart.DiscountCodes)
	if codes == nil {
		codes = []string{}
	}
	return &View{
		ID:                     cart.ID,
		SessionID:              cart.SessionToken,
		State:                  cart.State,
		UserID:                 cart.UserID,
		CheckoutID:             cart.CheckoutID,
		CheckoutToken:          cart.CheckoutToken,
		CheckoutURL:            cart.CheckoutURL,
		Subtotal:               cart.Subtotal,
		TaxAmount:              cart.TaxAmount,
		ShippingAmount:         cart.ShippingAmount,
		DiscountAmount:         cart.DiscountAmount,
		TotalAmount:            cart.TotalAmount,
		DiscountCodes:          codes,
		IsActive:               cart.IsActive,
		ExpiresAt:              cart.ExpiresAt,
		CreatedAt:              cart.CreatedAt,
		UpdatedAt:              cart.UpdatedAt,
		Items:                  views,
		ItemsCount:             ItemsCount(items),
		IsFreeShippingEligible: cart.Subtotal.GreaterThanOrEqual(threshold),
	}
}
