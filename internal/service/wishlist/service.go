package wishlist

import (
	"context"

	"velostore/internal/domain"
)

type wishlistRepo interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     wishlistRepo
	products productRepo
}

func New(repo wishlistRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	return s.repo.Get(ctx, userID)
}

// Add puts a product on the wishlist and returns the fresh snapshot. Adding a
// product that is already present is a no-op.
func (s *Service) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}
