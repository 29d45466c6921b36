package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"velostore/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const itemsQuery = `
SELECT p.id::text, p.slug, p.name, p.brand, COALESCE(p.description, ''), p.price_cents, p.discount_cents, p.currency, p.images, p.stock_quantity, p.rating_avg, p.rating_count, p.specs, p.categories, p.created_at,
       ci.quantity, ci.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC, p.id ASC
`

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	rows, err := r.pool.Query(ctx, itemsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.Cart{Items: []domain.CartItem{}}
	for rows.Next() {
		var item domain.CartItem
		p := &item.Product
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.Brand, &p.Description,
			&p.PriceCents, &p.DiscountCents, &p.Currency, &p.Images,
			&p.StockQuantity, &p.RatingAvg, &p.RatingCount, &p.Specs,
			&p.Categories, &p.CreatedAt,
			&item.Quantity, &item.AddedAt,
		); err != nil {
			return nil, err
		}
		p.InStock = p.StockQuantity > 0
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stock, existing, err := lineState(ctx, tx, userID, productID)
	if err != nil {
		return err
	}
	if existing+quantity > stock {
		return domain.ErrInsufficientStock
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`, userID, productID, quantity); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, userID, productID)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stock, _, err := lineState(ctx, tx, userID, productID)
	if err != nil {
		return err
	}
	if quantity > stock {
		return domain.ErrInsufficientStock
	}

	cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE user_id = $2 AND product_id = $3
`, quantity, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
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

// lineState loads the product's stock and the user's current quantity inside
// the mutation transaction so the stock guard sees a consistent view.
func lineState(ctx context.Context, tx pgx.Tx, userID, productID string) (stock, existing int, err error) {
	err = tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrNotFound
		}
		return 0, 0, err
	}

	err = tx.QueryRow(ctx, `
SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2
`, userID, productID).Scan(&existing)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, err
	}
	return stock, existing, nil
}
