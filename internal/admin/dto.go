package admin

import "github.com/chylers/storefront-api/internal/users"

// Stats is the admin dashboard summary.
type Stats struct {
	Users     UserStats    `json:"users"`
	Inquiries InquiryStats `json:"inquiries"`
	Shopify   ShopifyStats `json:"shopify"`
	Webhooks  WebhookStats `json:"webhooks"`
}

type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type InquiryStats struct {
	Total      int64 `json:"total"`
	Unresolved int64 `json:"unresolved"`
}

type ShopifyStats struct {
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
	Products  int `json:"products"`
}

type WebhookStats struct {
	Recent int64 `json:"recent"`
}

// UserListParams filters the admin user listing.
type UserListParams struct {
	Skip     int
	Limit    int
	IsActive *bool
}

// UserList is one page of users.
type UserList struct {
	Users []users.UserDTO `json:"users"`
	Total int64           `json:"total"`
}

// ToggleResult reports the new active flag of a user.
type ToggleResult struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}
