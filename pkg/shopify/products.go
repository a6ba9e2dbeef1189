package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductListParams filters the product listing.
type ProductListParams struct {
	Limit        int
	CollectionID int64
	Handle       string
}

func (p ProductListParams) query() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.CollectionID > 0 {
		q.Set("collection_id", strconv.FormatInt(p.CollectionID, 10))
	}
	if p.Handle != "" {
		q.Set("handle", p.Handle)
	}
	return q
}

// GetVariant fetches a single product variant.
func (c *Client) GetVariant(ctx context.Context, variantID int64) (*Variant, error) {
	var out struct {
		Variant Variant `json:"variant"`
	}
	if err := c.do(ctx, "get_variant", http.MethodGet, fmt.Sprintf("/variants/%d.json", variantID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Variant, nil
}

// GetProduct fetches a single product with its variants and images.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, "get_product", http.MethodGet, fmt.Sprintf("/products/%d.json", productID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// ListProducts returns one page of products.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, "list_products", http.MethodGet, "/products.json", params.query(), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetProductByHandle returns the product with the given handle or ErrNotFound.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*Product, error) {
	products, err := c.ListProducts(ctx, ProductListParams{Handle: handle})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// FindCollectionByHandle resolves a collection handle or returns ErrNotFound.
func (c *Client) FindCollectionByHandle(ctx context.Context, handle string) (*Collection, error) {
	var out struct {
		Collections []Collection `json:"collections"`
	}
	q := url.Values{"handle": []string{handle}}
	if err := c.do(ctx, "find_collection", http.MethodGet, "/collections.json", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Collections) == 0 {
		return nil, ErrNotFound
	}
	return &out.Collections[0], nil
}

// ListCustomCollections returns manually curated collections.
func (c *Client) ListCustomCollections(ctx context.Context) ([]Collection, error) {
	var out struct {
		Collections []Collection `json:"custom_collections"`
	}
	if err := c.do(ctx, "list_custom_collections", http.MethodGet, "/custom_collections.json", nil, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Collections {
		out.Collections[i].Kind = "custom"
	}
	return out.Collections, nil
}

// ListSmartCollections returns rule based collections.
func (c *Client) ListSmartCollections(ctx context.Context) ([]Collection, error) {
	var out struct {
		Collections []Collection `json:"smart_collections"`
	}
	if err := c.do(ctx, "list_smart_collections", http.MethodGet, "/smart_collections.json", nil, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Collections {
		out.Collections[i].Kind = "smart"
	}
	return out.Collections, nil
}

// Count returns the size of a resource collection, e.g. "orders" or "products".
func (c *Client) Count(ctx context.Context, resource string, query url.Values) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, "count_"+resource, http.MethodGet, fmt.Sprintf("/%s/count.json", resource), query, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
