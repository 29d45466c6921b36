package domain

import "time"

// Wishlist is the server-owned snapshot of a user's wishlist.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}
