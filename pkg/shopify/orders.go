package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// OrderListParams filters the order listing.
type OrderListParams struct {
	CustomerID int64
	Status     string
	Limit      int
}

func (p OrderListParams) query() url.Values {
	q := url.Values{}
	status := p.Status
	if status == "" {
		status = "any"
	}
	q.Set("status", status)
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.CustomerID > 0 {
		q.Set("customer_id", strconv.FormatInt(p.CustomerID, 10))
	}
	return q
}

// ListOrders returns one page of orders.
func (c *Client) ListOrders(ctx context.Context, params OrderListParams) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders.json", params.query(), nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder fetches a single order.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, "get_order", http.MethodGet, fmt.Sprintf("/orders/%d.json", orderID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}
