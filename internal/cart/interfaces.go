package cart

import (
	"context"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByToken(ctx context.Context, token string) (*models.CartSession, error)
	Create(ctx context.Context, cart *models.CartSession) error
	Save(ctx context.Context, cart *models.CartSession) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartLineItem, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartLineItem, error)
	FindItemByVariant(ctx context.Context, cartID uuid.UUID, variantID int64) (*models.CartLineItem, error)
	CreateItem(ctx context.Context, item *models.CartLineItem) error
	SaveItem(ctx context.Context, item *models.CartLineItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}

// CommerceClient is the slice of the Shopify Admin API the cart needs.
type CommerceClient interface {
	GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error)
	GetProduct(ctx context.Context, productID int64) (*shopify.Product, error)
	CreateCheckout(ctx context.Context, input shopify.CheckoutInput) (*shopify.Checkout, error)
	UpdateCheckout(ctx context.Context, token string, items []shopify.CheckoutLineItem) (*shopify.Checkout, error)
	ApplyDiscount(ctx context.Context, token, code string) (*shopify.Checkout, error)
	CalculateShipping(ctx context.Context, token string, address shopify.Address) ([]shopify.ShippingRate, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
