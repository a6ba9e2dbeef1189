package orders

import "github.com/chylers/storefront-api/pkg/shopify"

const (
	noteFulfillmentType = "fulfillment_type"
	notePickupLocation  = "pickup_location"
	fulfillmentWillCall = "will_call"
)

// OrderView is a Shopify order annotated with its pickup details.
type OrderView struct {
	shopify.Order
	IsWillCall     bool    `json:"is_will_call"`
	PickupLocation *string `json:"pickup_location"`
}

// ListParams filters an order listing.
type ListParams struct {
	Status string
	Limit  int
}

func newOrderView(o shopify.Order) OrderView {
	view := OrderView{Order: o}
	if value, ok := o.NoteAttribute(noteFulfillmentType); ok && value == fulfillmentWillCall {
		view.IsWillCall = true
	}
	if value, ok := o.NoteAttribute(notePickupLocation); ok {
		location := value
		view.PickupLocation = &location
	}
	if view.LineItems == nil {
		view.LineItems = []shopify.OrderLineItem{}
	}
	return view
}

func newOrderViews(orders []shopify.Order, limit int) []OrderView {
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}
