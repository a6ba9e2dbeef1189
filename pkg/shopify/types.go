package shopify

import (
	"time"

	"github.com/shopspring/decimal"
)

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type Variant struct {
	ID                int64               `json:"id"`
	ProductID         int64               `json:"product_id"`
	Title             string              `json:"title"`
	Price             decimal.Decimal     `json:"price"`
	CompareAtPrice    decimal.NullDecimal `json:"compare_at_price"`
	SKU               string              `json:"sku"`
	Option1           string              `json:"option1,omitempty"`
	Option2           string              `json:"option2,omitempty"`
	InventoryQuantity int                 `json:"inventory_quantity"`
	Weight            float64             `json:"weight,omitempty"`
	WeightUnit        string              `json:"weight_unit,omitempty"`
}

type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Tags        string     `json:"tags"`
	Status      string     `json:"status"`
	Variants    []Variant  `json:"variants"`
	Images      []Image    `json:"images"`
	Image       *Image     `json:"image"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// PrimaryImage returns the first image source or empty.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	if p.Image != nil {
		return p.Image.Src
	}
	return ""
}

type Collection struct {
	ID       int64  `json:"id"`
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html,omitempty"`
	Image    *Image `json:"image,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

type NoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CheckoutLineItem struct {
	VariantID  int64          `json:"variant_id"`
	Quantity   int            `json:"quantity"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Address struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone,omitempty"`
}

type Checkout struct {
	ID             int64           `json:"id,omitempty"`
	Token          string          `json:"token"`
	WebURL         string          `json:"web_url"`
	Email          string          `json:"email,omitempty"`
	SubtotalPrice  decimal.Decimal `json:"subtotal_price"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	NoteAttributes []NoteAttribute `json:"note_attributes,omitempty"`
}

// ShippingRate is one delivery option for a checkout. Price stays a string so
// the platform's formatting passes through untouched.
type ShippingRate struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Price            string `json:"price"`
	Handle           string `json:"handle,omitempty"`
	Code             string `json:"code,omitempty"`
	Source           string `json:"source,omitempty"`
	DeliveryCategory string `json:"delivery_category,omitempty"`
}

type Customer struct {
	ID            int64           `json:"id"`
	Email         string          `json:"email"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Phone         string          `json:"phone,omitempty"`
	Tags          string          `json:"tags,omitempty"`
	VerifiedEmail bool            `json:"verified_email"`
	State         string          `json:"state,omitempty"`
	OrdersCount   int             `json:"orders_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

type OrderLineItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	VariantID    int64           `json:"variant_id"`
	Title        string          `json:"title"`
	VariantTitle string          `json:"variant_title"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	OrderNumber       int             `json:"order_number"`
	Email             string          `json:"email"`
	Currency          string          `json:"currency"`
	SubtotalPrice     decimal.Decimal `json:"subtotal_price"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	TotalDiscounts    decimal.Decimal `json:"total_discounts"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus *string         `json:"fulfillment_status"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
	Customer          *Customer       `json:"customer,omitempty"`
	LineItems         []OrderLineItem `json:"line_items"`
	NoteAttributes    []NoteAttribute `json:"note_attributes"`
	ShippingAddress   *Address        `json:"shipping_address,omitempty"`
}

// NoteAttribute returns the value of the named note attribute.
func (o Order) NoteAttribute(name string) (string, bool) {
	for _, attr := range o.NoteAttributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}
