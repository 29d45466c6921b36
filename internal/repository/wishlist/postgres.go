package wishlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"velostore/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	const q = `
SELECT p.id::text, p.slug, p.name, p.brand, COALESCE(p.description, ''), p.price_cents, p.discount_cents, p.currency, p.images, p.stock_quantity, p.rating_avg, p.rating_count, p.specs, p.categories, p.created_at,
       wi.created_at
FROM wishlist_items wi
JOIN products p ON p.id = wi.product_id
WHERE wi.user_id = $1
ORDER BY wi.created_at ASC, p.id ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := &domain.Wishlist{Items: []domain.WishlistItem{}}
	for rows.Next() {
		var item domain.WishlistItem
		p := &item.Product
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.Brand, &p.Description,
			&p.PriceCents, &p.DiscountCents, &p.Currency, &p.Images,
			&p.StockQuantity, &p.RatingAvg, &p.RatingCount, &p.Specs,
			&p.Categories, &p.CreatedAt,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		p.InStock = p.StockQuantity > 0
		list.Items = append(list.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Add is idempotent: adding a product already on the wishlist is a no-op.
func (r *postgresRepo) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO wishlist_items (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING
`, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: product or user no longer exists.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM wishlist_items
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
