package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CheckoutInput seeds a new checkout.
type CheckoutInput struct {
	Email          string             `json:"email,omitempty"`
	LineItems      []CheckoutLineItem `json:"line_items"`
	NoteAttributes []NoteAttribute    `json:"note_attributes,omitempty"`
}

type checkoutEnvelope struct {
	Checkout Checkout `json:"checkout"`
}

// CreateCheckout opens a remote checkout with the given items.
func (c *Client) CreateCheckout(ctx context.Context, input CheckoutInput) (*Checkout, error) {
	if input.LineItems == nil {
		input.LineItems = []CheckoutLineItem{}
	}
	body := map[string]any{"checkout": input}
	var out checkoutEnvelope
	if err := c.do(ctx, "create_checkout", http.MethodPost, "/checkouts.json", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Checkout, nil
}

// UpdateCheckout replaces the checkout's line items with the full list given.
func (c *Client) UpdateCheckout(ctx context.Context, token string, items []CheckoutLineItem) (*Checkout, error) {
	if items == nil {
		items = []CheckoutLineItem{}
	}
	body := map[string]any{"checkout": map[string]any{"line_items": items}}
	var out checkoutEnvelope
	if err := c.do(ctx, "update_checkout", http.MethodPut, checkoutPath(token), nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Checkout, nil
}

// ApplyDiscount sets the checkout's discount code.
func (c *Client) ApplyDiscount(ctx context.Context, token, code string) (*Checkout, error) {
	body := map[string]any{"checkout": map[string]any{"discount_code": code}}
	var out checkoutEnvelope
	if err := c.do(ctx, "apply_discount", http.MethodPut, checkoutPath(token), nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Checkout, nil
}

// CalculateShipping stores the address on the checkout and returns the rates
// the platform offers for it.
func (c *Client) CalculateShipping(ctx context.Context, token string, address Address) ([]ShippingRate, error) {
	body := map[string]any{"checkout": map[string]any{"shipping_address": address}}
	if err := c.do(ctx, "update_shipping_address", http.MethodPut, checkoutPath(token), nil, body, nil); err != nil {
		return nil, err
	}

	var out struct {
		ShippingRates []ShippingRate `json:"shipping_rates"`
	}
	path := fmt.Sprintf("/checkouts/%s/shipping_rates.json", url.PathEscape(token))
	if err := c.do(ctx, "get_shipping_rates", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.ShippingRates, nil
}

func checkoutPath(token string) string {
	return fmt.Sprintf("/checkouts/%s.json", url.PathEscape(token))
}
