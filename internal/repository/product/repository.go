package product

import (
	"context"

	"velostore/internal/domain"
)

// ListQuery narrows and orders a catalog listing.
type ListQuery struct {
	Filter    domain.FilterSelection
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}
