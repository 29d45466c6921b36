package wishlist

import (
	"context"

	"velostore/internal/domain"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}
