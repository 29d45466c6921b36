package cart

import (
	"context"
	"errors"

	"velostore/internal/domain"
)

// Pricing constants applied when computing cart metadata. The server is the
// only place these live; clients pass the aggregate through untouched.
const (
	flatShippingCents     = 900
	freeShippingOverCents = 10000
	taxRatePercent        = 8
)

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     cartRepo
	products productRepo
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// Get returns the cart snapshot with metadata attached. An empty cart has nil
// metadata.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Metadata = computeMetadata(cart.Items)
	return cart, nil
}

func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	if !product.InStock {
		return nil, domain.ErrInsufficientStock
	}
	if err := s.repo.AddItem(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Update sets an item's quantity. A non-positive quantity removes the line,
// matching the storefront convention of redirecting decrease-to-zero to
// remove.
func (s *Service) Update(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func computeMetadata(items []domain.CartItem) *domain.CartMetadata {
	if len(items) == 0 {
		return nil
	}

	meta := &domain.CartMetadata{Currency: items[0].Product.Currency}
	for _, item := range items {
		qty := int64(item.Quantity)
		meta.SubtotalCents += item.Product.PriceCents * qty
		meta.DiscountCents += item.Product.DiscountCents * qty
	}

	discounted := meta.SubtotalCents - meta.DiscountCents
	if discounted < freeShippingOverCents {
		meta.ShippingCents = flatShippingCents
	}
	meta.TaxCents = discounted * taxRatePercent / 100
	meta.TotalCents = discounted + meta.ShippingCents + meta.TaxCents
	return meta
}
