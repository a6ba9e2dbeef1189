package cart

import (
	"context"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
)

const sourceAttribute = "source"

// Mirror pushes the local line items to the cart's remote checkout. Failures
// are logged and swallowed; local state has already been committed.
type Mirror struct {
	client CommerceClient
	logg   *logger.Logger
	source string
}

func NewMirror(client CommerceClient, logg *logger.Logger, source string) *Mirror {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Mirror{client: client, logg: logg, source: source}
}

// Push replaces the remote checkout's items with items. It returns the newly
// created checkout when the cart had none, so the caller can link it.
func (m *Mirror) Push(ctx context.Context, cart *models.CartSession, items []models.CartLineItem) *shopify.Checkout {
	lines := checkoutLines(items)
	ctx = m.logg.WithCartID(ctx, cart.ID.String())

	if cart.HasCheckout() {
		if _, err := m.client.UpdateCheckout(ctx, *cart.CheckoutToken, lines); err != nil {
			m.logg.Error(m.logg.WithField(ctx, "step", "update_checkout"), "cart.mirror_failed", err)
		}
		return nil
	}
	if len(lines) == 0 {
		return nil
	}

	checkout, err := m.client.CreateCheckout(ctx, shopify.CheckoutInput{
		LineItems:      lines,
		NoteAttributes: []shopify.NoteAttribute{{Name: sourceAttribute, Value: m.source}},
	})
	if err != nil {
		m.logg.Error(m.logg.WithField(ctx, "step", "create_checkout"), "cart.mirror_failed", err)
		return nil
	}
	return checkout
}

func checkoutLines(items []models.CartLineItem) []shopify.CheckoutLineItem {
	lines := make([]shopify.CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, shopify.CheckoutLineItem{
			VariantID:  item.ShopifyVariantID,
			Quantity:   item.Quantity,
			Properties: item.Properties,
		})
	}
	return lines
}
