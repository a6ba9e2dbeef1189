package cart

import (
	"fmt"
	"strings"

	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/shopspring/decimal"
)

const (
	FreeShippingRateID = "free-shipping"
	WillCallRateID     = "will-call"
	zeroPrice          = "0.00"
)

// ShippingOptions configures the store-provided rates.
type ShippingOptions struct {
	FreeShippingThreshold decimal.Decimal
	HomeRegion            string
	WillCallLocation      string
	Source                string
}

// AssembleRates returns [free shipping?, remote rates..., will call?].
func AssembleRates(remote []shopify.ShippingRate, subtotal decimal.Decimal, provinceCode string, opts ShippingOptions) []shopify.ShippingRate {
	rates := make([]shopify.ShippingRate, 0, len(remote)+2)

	if subtotal.GreaterThanOrEqual(opts.FreeShippingThreshold) {
		rates = append(rates, shopify.ShippingRate{
			ID:     FreeShippingRateID,
			Title:  fmt.Sprintf("Free Shipping (Order over $%s)", formatThreshold(opts.FreeShippingThreshold)),
			Price:  zeroPrice,
			Code:   "FREE",
			Source: opts.Source,
		})
	}

	rates = append(rates, remote...)

	if opts.HomeRegion != "" && strings.EqualFold(strings.TrimSpace(provinceCode), opts.HomeRegion) {
		rates = append(rates, shopify.ShippingRate{
			ID:               WillCallRateID,
			Title:            "Will Call Pickup - " + opts.WillCallLocation,
			Price:            zeroPrice,
			Code:             "WILLCALL",
			Source:           opts.Source,
			DeliveryCategory: "pickup",
		})
	}
	return rates
}

// formatThreshold renders 49.00 as "49" and 49.50 as "49.50".
func formatThreshold(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
