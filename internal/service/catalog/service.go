package catalog

import (
	"context"

	"velostore/internal/domain"
	productrepo "velostore/internal/repository/product"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListInput selects, orders and pages a catalog listing.
type ListInput struct {
	Filter    domain.FilterSelection
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
}

// List returns one page of products plus the pagination summary. An empty
// result set is a successful listing, not an error.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Product, domain.Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	products, total, err := s.repo.List(ctx, productrepo.ListQuery{
		Filter:    in.Filter,
		SortField: in.SortField,
		SortDesc:  in.SortDesc,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return products, domain.Pagination{
		Total:   total,
		Page:    page,
		Pages:   pages,
		HasMore: page < pages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCategories(ctx)
}
