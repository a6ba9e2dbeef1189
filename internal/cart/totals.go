package cart

import (
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Subtotal sums the line totals.
func Subtotal(items []models.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}

// Total is subtotal + tax + shipping - discount, floored at zero.
func Total(subtotal, tax, shipping, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ItemsCount sums item quantities.
func ItemsCount(items []models.CartLineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// ApplyTotals recomputes the cart's subtotal and total from items.
func ApplyTotals(cart *models.CartSession, items []models.CartLineItem) {
	cart.Subtotal = Subtotal(items)
	cart.TotalAmount = Total(cart.Subtotal, cart.TaxAmount, cart.ShippingAmount, cart.DiscountAmount)
}
