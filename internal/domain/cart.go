package domain

import "time"

// Cart is the server-owned snapshot of a user's cart. The client never patches
// it locally; every mutation returns a fresh snapshot that replaces the cached
// one wholesale.
type Cart struct {
	Items    []CartItem    `json:"items"`
	Metadata *CartMetadata `json:"metadata,omitempty"`
}

type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// CartMetadata carries the server-computed price aggregate. Clients pass it
// through for display and never recompute any of its fields.
type CartMetadata struct {
	SubtotalCents int64  `json:"subtotalCents"`
	DiscountCents int64  `json:"discountCents"`
	ShippingCents int64  `json:"shippingCents"`
	TaxCents      int64  `json:"taxCents"`
	TotalCents    int64  `json:"totalCents"`
	Currency      string `json:"currency"`
}
