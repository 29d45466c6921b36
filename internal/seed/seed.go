package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Slug          string
	Name          string
	Brand         string
	Description   string
	PriceCents    int64
	DiscountCents int64
	Stock         int
	RatingAvg     float64
	RatingCount   int
	Categories    []string
	Specs         string
	Images        []string
}

// Apply inserts demo data for manual testing: a small bike catalog and a demo
// rider account. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureUser(ctx, pool, "rider@example.com", "Secret123", "Demo", "Rider"); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	products := []productSeed{
		{
			Slug:          "ridgeline-29er",
			Name:          "Ridgeline 29er",
			Brand:         "Ridgeline",
			Description:   "Hardtail trail bike with 29-inch wheels and a 120mm fork",
			PriceCents:    129900,
			DiscountCents: 10000,
			Stock:         8,
			RatingAvg:     4.6,
			RatingCount:   31,
			Categories:    []string{"mountain"},
			Specs:         `{"frameMaterial":"aluminum","wheelSize":"29","suspension":"front","colors":["black","red"]}`,
			Images:        []string{"https://cdn.velostore.test/ridgeline-29er.jpg"},
		},
		{
			Slug:        "vexel-aero-road",
			Name:        "Vexel Aero Road",
			Brand:       "Vexel",
			Description: "Carbon aero road frame with electronic shifting",
			PriceCents:  349900,
			Stock:       3,
			RatingAvg:   4.9,
			RatingCount: 12,
			Categories:  []string{"road"},
			Specs:       `{"frameMaterial":"carbon","wheelSize":"700c","suspension":"none","colors":["white"]}`,
			Images:      []string{"https://cdn.velostore.test/vexel-aero-road.jpg"},
		},
		{
			Slug:        "gravelking-ti",
			Name:        "Gravelking Ti",
			Brand:       "Gravelking",
			Description: "Titanium all-road frame, clearance for 47mm tires",
			PriceCents:  279900,
			Stock:       0,
			RatingAvg:   4.4,
			RatingCount: 19,
			Categories:  []string{"gravel", "road"},
			Specs:       `{"frameMaterial":"titanium","wheelSize":"700c","suspension":"none","colors":["raw"]}`,
		},
		{
			Slug:          "commuter-belt-8",
			Name:          "Commuter Belt 8",
			Brand:         "Ridgeline",
			Description:   "Belt-drive city bike with an 8-speed internal hub",
			PriceCents:    89900,
			DiscountCents: 5000,
			Stock:         15,
			RatingAvg:     4.1,
			RatingCount:   54,
			Categories:    []string{"city"},
			Specs:         `{"frameMaterial":"steel","wheelSize":"700c","suspension":"none","colors":["grey","blue"]}`,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, first, last string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, role, first_name, last_name)
VALUES ($1, $2, 'user', $3, $4)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash), first, last)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, name, brand, description, price_cents, discount_cents, currency,
                      images, stock_quantity, rating_avg, rating_count, specs, categories)
VALUES ($1, $2, $3, $4, $5, $6, 'USD', $7, $8, $9, $10, $11::jsonb, $12)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discount_cents = EXCLUDED.discount_cents,
    images = EXCLUDED.images,
    stock_quantity = EXCLUDED.stock_quantity,
    rating_avg = EXCLUDED.rating_avg,
    rating_count = EXCLUDED.rating_count,
    specs = EXCLUDED.specs,
    categories = EXCLUDED.categories
`
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := pool.Exec(ctx, q, p.Slug, p.Name, p.Brand, p.Description, p.PriceCents, p.DiscountCents,
		images, p.Stock, p.RatingAvg, p.RatingCount, p.Specs, p.Categories)
	return err
}
