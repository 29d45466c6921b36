package cart

import (
	"context"

	"velostore/internal/domain"
)

// Repository stores per-user carts. Reads return the full snapshot with
// denormalized products so handlers can hand it straight to clients.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
}
