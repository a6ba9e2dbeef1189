package shopify

import "github.com/chylers/storefront-api/pkg/security"

const (
	HeaderHmac       = "X-Shopify-Hmac-Sha256"
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderWebhookID  = "X-Shopify-Webhook-Id"
	HeaderAPIVersion = "X-Shopify-API-Version"
)

const (
	TopicOrdersCreate    = "orders/create"
	TopicCustomersCreate = "customers/create"
	TopicCartsUpdate     = "carts/update"
)

// VerifyWebhook checks the HMAC header against the raw request body.
func VerifyWebhook(secret string, body []byte, signature string) bool {
	return security.VerifyBase64HMAC(secret, body, signature)
}
