package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"velostore/internal/domain"
)

const productColumns = `id::text, slug, name, brand, COALESCE(description, ''), price_cents, discount_cents, currency, images, stock_quantity, rating_avg, rating_count, specs, categories, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// sortColumns whitelists ORDER BY targets; anything else falls back to the
// featured ordering.
var sortColumns = map[string]string{
	"price":    "(price_cents - discount_cents)",
	"rating":   "rating_avg",
	"newest":   "created_at",
	"name":     "name",
	"featured": "rating_count",
}

func (r *postgresRepo) List(ctx context.Context, q ListQuery) ([]domain.Product, int, error) {
	where, args := buildConditions(q.Filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortField]
	if !ok {
		column = sortColumns["featured"]
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id ASC`, productColumns, where, column, dir)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		listQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		listQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, 0, err
	}
	r.logger.Printf("product repo: list count=%d total=%d", len(result), total)
	return result, total, nil
}

// buildConditions translates a filter selection into a WHERE clause with
// positional args. An empty selection produces no clause at all.
func buildConditions(f domain.FilterSelection) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		needle := "%" + f.Search + "%"
		p := next(needle)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %s OR brand ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if len(f.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("categories && %s", next(f.Categories)))
	}
	if len(f.Brands) > 0 {
		conditions = append(conditions, fmt.Sprintf("brand = ANY(%s)", next(f.Brands)))
	}
	if f.Specs.FrameMaterial != "" {
		conditions = append(conditions, fmt.Sprintf("specs->>'frameMaterial' ILIKE %s", next(f.Specs.FrameMaterial)))
	}
	if f.Specs.WheelSize != "" {
		conditions = append(conditions, fmt.Sprintf("specs->>'wheelSize' = %s", next(f.Specs.WheelSize)))
	}
	if f.Specs.Suspension != "" {
		conditions = append(conditions, fmt.Sprintf("specs->>'suspension' ILIKE %s", next(f.Specs.Suspension)))
	}
	if len(f.Specs.Colors) > 0 {
		conditions = append(conditions, fmt.Sprintf("specs->'colors' ?| %s", next(f.Specs.Colors)))
	}
	if f.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("(price_cents - discount_cents) >= %s", next(*f.PriceMin)))
	}
	if f.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("(price_cents - discount_cents) <= %s", next(*f.PriceMax)))
	}
	if f.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating_avg >= %s", next(*f.MinRating)))
	}
	if f.InStock {
		conditions = append(conditions, "stock_quantity > 0")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, slug, name, brand, description, price_cents, discount_cents, currency, images, stock_quantity, rating_avg, rating_count, specs, categories)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, COALESCE($13, '{}'::jsonb), $14)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discount_cents = EXCLUDED.discount_cents,
    currency = EXCLUDED.currency,
    images = EXCLUDED.images,
    stock_quantity = EXCLUDED.stock_quantity,
    rating_avg = EXCLUDED.rating_avg,
    rating_count = EXCLUDED.rating_count,
    specs = EXCLUDED.specs,
    categories = EXCLUDED.categories
RETURNING id::text, created_at
`
	images := product.Images
	if images == nil {
		images = []string{}
	}
	categories := product.Categories
	if categories == nil {
		categories = []string{}
	}

	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Slug,
		product.Name,
		product.Brand,
		product.Description,
		product.PriceCents,
		product.DiscountCents,
		product.Currency,
		images,
		product.StockQuantity,
		product.RatingAvg,
		product.RatingCount,
		product.Specs,
		categories,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", product.Slug, err)
		return nil, err
	}
	res.InStock = res.StockQuantity > 0
	r.logger.Printf("product repo: upserted slug=%s id=%s", res.Slug, res.ID)
	return &res, nil
}

func (r *postgresRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT unnest(categories) AS category FROM products ORDER BY category`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: categories error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Brand,
		&p.Description,
		&p.PriceCents,
		&p.DiscountCents,
		&p.Currency,
		&p.Images,
		&p.StockQuantity,
		&p.RatingAvg,
		&p.RatingCount,
		&p.Specs,
		&p.Categories,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.InStock = p.StockQuantity > 0
	return p, nil
}
