package cart

import (
	"testing"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestTotalsFollowLineItems(t *testing.T) {
	items := []models.CartLineItem{
		{Quantity: 2, LineTotal: d("20.00")},
		{Quantity: 1, LineTotal: d("15.50")},
	}
	cart := &models.CartSession{TaxAmount: d("1.25"), ShippingAmount: d("5.00"), DiscountAmount: d("3.00")}

	ApplyTotals(cart, items)

	if !cart.Subtotal.Equal(d("35.50")) {
		t.Fatalf("expected subtotal 35.50, got %s", cart.Subtotal)
	}
	if !cart.TotalAmount.Equal(d("38.75")) {
		t.Fatalf("expected total 38.75, got %s", cart.TotalAmount)
	}
	if ItemsCount(items) != 3 {
		t.Fatalf("expected 3 items, got %d", ItemsCount(items))
	}
}

func TestTotalNeverNegative(t *testing.T) {
	if got := Total(d("10"), decimal.Zero, decimal.Zero, d("25")); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}
