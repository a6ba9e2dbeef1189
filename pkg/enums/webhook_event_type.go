package enums

import "fmt"

// WebhookEventType names the stored form of an inbound webhook topic.
type WebhookEventType string

const (
	WebhookEventOrderCreated    WebhookEventType = "order.created"
	WebhookEventCustomerCreated WebhookEventType = "customer.created"
	WebhookEventCartUpdated     WebhookEventType = "cart.updated"
)

var validWebhookEventTypes = []WebhookEventType{
	WebhookEventOrderCreated,
	WebhookEventCustomerCreated,
	WebhookEventCartUpdated,
}

// String implements fmt.Stringer.
func (w WebhookEventType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WebhookEventType.
func (w WebhookEventType) IsValid() bool {
	for _, candidate := range validWebhookEventTypes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWebhookEventType converts raw input into a WebhookEventType.
func ParseWebhookEventType(value string) (WebhookEventType, error) {
	for _, candidate := range validWebhookEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid webhook event type %q", value)
}
