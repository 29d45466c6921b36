package catalog

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"

	"velostore/internal/domain"
	"velostore/internal/storefront/query"
	"velostore/internal/storefront/rest"
)

// ErrSuperseded means a newer Fetch was started while this one was in flight;
// its result was discarded without touching any state.
var ErrSuperseded = errors.New("listing request superseded by a newer one")

// Listing is one page of products plus its pagination metadata.
type Listing struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

// Fetcher loads product listings. Starting a new Fetch cancels any fetch
// still in flight, so only the most recent query can produce a result —
// stale responses are never delivered, regardless of arrival order.
type Fetcher struct {
	api    *rest.Client
	logger *log.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewFetcher(api *rest.Client, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Fetcher{api: api, logger: logger}
}

// Fetch loads the page of products matching the filter, page and sort. When a
// later Fetch starts before this one returns, this one is cancelled and
// reports ErrSuperseded.
func (f *Fetcher) Fetch(ctx context.Context, filter domain.FilterSelection, page domain.Page, sort query.Sort) (*Listing, error) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	path := "/api/users/products"
	if qs := query.Encode(query.BuildParams(filter, page, sort)); qs != "" {
		path += "?" + qs
	}

	var payload struct {
		Products   []domain.Product   `json:"products"`
		Pagination *domain.Pagination `json:"pagination"`
	}
	err := f.api.Do(ctx, http.MethodGet, path, nil, &payload)

	f.mu.Lock()
	current := gen == f.gen
	if current {
		f.cancel = nil
	}
	f.mu.Unlock()
	cancel()

	if !current {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Products:   payload.Products,
		Pagination: domain.Pagination{Total: 0, Page: 1, Pages: 1, HasMore: false},
	}
	if listing.Products == nil {
		listing.Products = []domain.Product{}
	}
	if payload.Pagination != nil {
		listing.Pagination = *payload.Pagination
	}
	return listing, nil
}

// FetchOne loads a single product by id.
func (f *Fetcher) FetchOne(ctx context.Context, productID string) (*domain.Product, error) {
	var payload struct {
		Product *domain.Product `json:"product"`
	}
	if err := f.api.Do(ctx, http.MethodGet, "/api/users/products/"+productID, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Product, nil
}

// Categories loads the distinct category names in the catalog.
func (f *Fetcher) Categories(ctx context.Context) ([]string, error) {
	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := f.api.Do(ctx, http.MethodGet, "/api/users/products/categories", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Categories == nil {
		payload.Categories = []string{}
	}
	return payload.Categories, nil
}
