package domain

import "time"

// Product is a bike or accessory in the catalog. The storefront client treats
// it as a read-only value object referenced by ID.
type Product struct {
	ID            string                 `json:"id"`
	Slug          string                 `json:"slug"`
	Name          string                 `json:"name"`
	Brand         string                 `json:"brand"`
	Description   string                 `json:"description,omitempty"`
	PriceCents    int64                  `json:"priceCents"`
	DiscountCents int64                  `json:"discountCents"`
	Currency      string                 `json:"currency"`
	Images        []string               `json:"images,omitempty"`
	StockQuantity int                    `json:"stockQuantity"`
	InStock       bool                   `json:"inStock"`
	RatingAvg     float64                `json:"ratingAvg"`
	RatingCount   int                    `json:"ratingCount"`
	Specs         map[string]interface{} `json:"specs,omitempty"`
	Categories    []string               `json:"categories,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// EffectivePriceCents is the price after the per-unit discount.
func (p Product) EffectivePriceCents() int64 {
	price := p.PriceCents - p.DiscountCents
	if price < 0 {
		return 0
	}
	return price
}
