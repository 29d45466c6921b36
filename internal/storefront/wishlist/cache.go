package wishlist

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"

	"velostore/internal/domain"
	"velostore/internal/storefront/rest"
)

// Snapshot is a point-in-time copy of the cached wishlist.
type Snapshot struct {
	Items       []domain.WishlistItem
	Count       int
	Loading     bool
	Initialized bool
}

// Cache mirrors the server-side wishlist with the same replace-on-success,
// preserve-on-failure discipline as the cart cache.
type Cache struct {
	api    *rest.Client
	logger *log.Logger

	mu          sync.Mutex
	items       []domain.WishlistItem
	inFlight    int
	initialized bool
}

func NewCache(api *rest.Client, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{api: api, logger: logger}
}

// Fetch loads the wishlist. Without a session it makes no network call but
// still marks the cache initialized.
func (c *Cache) Fetch(ctx context.Context) error {
	if err := c.api.RequireAuth(); err != nil {
		c.mu.Lock()
		c.initialized = true
		c.mu.Unlock()
		return err
	}
	return c.call(ctx, http.MethodGet, "/api/users/wishlist")
}

// Add puts a product on the wishlist. Adding a product that is already there
// is a no-op server-side.
func (c *Cache) Add(ctx context.Context, productID string) error {
	if err := c.api.RequireAuth(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, "/api/users/products/"+productID)
}

// Remove takes a product off the wishlist.
func (c *Cache) Remove(ctx context.Context, productID string) error {
	if err := c.api.RequireAuth(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, "/api/users/products/"+productID)
}

// Toggle adds the product when absent from the cache and removes it when
// present.
func (c *Cache) Toggle(ctx context.Context, productID string) error {
	if c.Contains(productID) {
		return c.Remove(ctx, productID)
	}
	return c.Add(ctx, productID)
}

// Contains reports whether the cached wishlist holds the product.
func (c *Cache) Contains(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current cache state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.WishlistItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:       items,
		Count:       len(items),
		Loading:     c.inFlight > 0,
		Initialized: c.initialized,
	}
}

// Count is the number of wishlisted products.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) call(ctx context.Context, method, path string) error {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()

	var snap domain.Wishlist
	err := c.api.Do(ctx, method, path, nil, &snap)

	c.mu.Lock()
	c.inFlight--
	c.initialized = true
	if err == nil {
		items := snap.Items
		if items == nil {
			items = []domain.WishlistItem{}
		}
		c.items = items
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("wishlist request failed method=%s path=%s err=%v", method, path, err)
	}
	return err
}
