package cart

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"

	"velostore/internal/domain"
	"velostore/internal/storefront/rest"
)

// Snapshot is a point-in-time copy of the cached cart, safe to read after the
// cache has moved on.
type Snapshot struct {
	Items       []domain.CartItem
	Metadata    *domain.CartMetadata
	Count       int
	Loading     bool
	Initialized bool
}

// Cache mirrors the server-side cart. Every successful call replaces the
// cached items wholesale with the server's response; failures leave the cache
// untouched. When responses overlap, the one that lands last wins.
type Cache struct {
	api    *rest.Client
	logger *log.Logger

	mu          sync.Mutex
	items       []domain.CartItem
	metadata    *domain.CartMetadata
	inFlight    int
	initialized bool
}

func NewCache(api *rest.Client, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{api: api, logger: logger}
}

// Fetch loads the cart from the server. Without a session it makes no network
// call but still marks the cache initialized, so consumers can distinguish
// "never asked" from "asked, empty".
func (c *Cache) Fetch(ctx context.Context) error {
	if err := c.api.RequireAuth(); err != nil {
		c.mu.Lock()
		c.initialized = true
		c.mu.Unlock()
		return err
	}
	return c.call(ctx, http.MethodGet, "/api/users/cart", nil)
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

// Add puts quantity units of a product in the cart. When the product is
// already cached, the combined quantity is checked against the last known
// stock level before any network call.
func (c *Cache) Add(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	if err := c.api.RequireAuth(); err != nil {
		return err
	}
	if item, ok := c.cachedItem(productID); ok {
		if item.Quantity+quantity > item.Product.StockQuantity {
			return domain.ErrInsufficientStock
		}
	}
	return c.call(ctx, http.MethodPost, "/api/users/cart/add", addRequest{ProductID: productID, Quantity: quantity})
}

// Update sets the quantity of a cart line. Zero or negative removes the line.
func (c *Cache) Update(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}
	if err := c.api.RequireAuth(); err != nil {
		return err
	}
	if item, ok := c.cachedItem(productID); ok {
		if quantity > item.Product.StockQuantity {
			return domain.ErrInsufficientStock
		}
	}
	return c.call(ctx, http.MethodPut, "/api/users/cart/items/"+productID, updateRequest{Quantity: quantity})
}

// Remove deletes a cart line.
func (c *Cache) Remove(ctx context.Context, productID string) error {
	if err := c.api.RequireAuth(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, "/api/users/cart/items/"+productID, nil)
}

// Snapshot returns a copy of the current cache state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:       items,
		Metadata:    c.metadata,
		Count:       len(items),
		Loading:     c.inFlight > 0,
		Initialized: c.initialized,
	}
}

// Count is the number of distinct cart lines, derived from the cached items.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) cachedItem(productID string) (domain.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

func (c *Cache) call(ctx context.Context, method, path string, body interface{}) error {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()

	var snap domain.Cart
	err := c.api.Do(ctx, method, path, body, &snap)

	c.mu.Lock()
	c.inFlight--
	c.initialized = true
	if err == nil {
		items := snap.Items
		if items == nil {
			items = []domain.CartItem{}
		}
		c.items = items
		c.metadata = snap.Metadata
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("cart request failed method=%s path=%s err=%v", method, path, err)
	}
	return err
}
