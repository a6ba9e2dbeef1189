package shopify

import (
	"context"
	"fmt"
	"net/http"
)

// CustomerInput creates or patches a customer. Empty fields are omitted.
type CustomerInput struct {
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Tags          string `json:"tags,omitempty"`
	VerifiedEmail bool   `json:"verified_email,omitempty"`
}

type customerEnvelope struct {
	Customer Customer `json:"customer"`
}

// CreateCustomer registers a customer record.
func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	var out customerEnvelope
	body := map[string]any{"customer": input}
	if err := c.do(ctx, "create_customer", http.MethodPost, "/customers.json", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// UpdateCustomer patches an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, customerID int64, input CustomerInput) (*Customer, error) {
	var out customerEnvelope
	body := map[string]any{"customer": input}
	if err := c.do(ctx, "update_customer", http.MethodPut, fmt.Sprintf("/customers/%d.json", customerID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// GetCustomer fetches a customer by id.
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	var out customerEnvelope
	if err := c.do(ctx, "get_customer", http.MethodGet, fmt.Sprintf("/customers/%d.json", customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}
