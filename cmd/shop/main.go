package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"velostore/internal/config"
	"velostore/internal/domain"
	"velostore/internal/storefront/cart"
	"velostore/internal/storefront/catalog"
	"velostore/internal/storefront/query"
	"velostore/internal/storefront/rest"
	"velostore/internal/storefront/session"
	"velostore/internal/storefront/wishlist"
)

const usage = `Usage: shop <command> [args]

Commands:
  signup <email> <password> [first] [last]
  login <email> <password>
  logout
  whoami
  categories
  products [-search s] [-categories a,b] [-brands a,b] [-min-price cents] [-max-price cents]
           [-min-rating n] [-in-stock] [-sort preset] [-page n] [-limit n]
  product <productId>
  cart show|add|update|remove [args]
  wishlist show|add|remove|toggle [args]
`

type app struct {
	api       *rest.Client
	carts     *cart.Cache
	wishlists *wishlist.Cache
	products  *catalog.Fetcher
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[shop] ", 0)
	sessions := session.NewStore(cfg.SessionFile)
	api := rest.New(cfg.APIBaseURL, sessions, cfg.RequestTimeout, logger)
	a := &app{
		api:       api,
		carts:     cart.NewCache(api, logger),
		wishlists: wishlist.NewCache(api, logger),
		products:  catalog.NewFetcher(api, logger),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.api.Logout(ctx)
	case "whoami":
		return a.whoami()
	case "categories":
		return a.categories(ctx)
	case "products":
		return a.listProducts(ctx, args)
	case "product":
		return a.showProduct(ctx, args)
	case "cart":
		return a.cartCommand(ctx, args)
	case "wishlist":
		return a.wishlistCommand(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) signup(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: shop signup <email> <password> [first] [last]")
	}
	var first, last string
	if len(args) > 2 {
		first = args[2]
	}
	if len(args) > 3 {
		last = args[3]
	}
	if err := a.api.Signup(ctx, args[0], args[1], first, last); err != nil {
		return err
	}
	fmt.Println("account created, now login")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: shop login <email> <password>")
	}
	sess, err := a.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", sess.Email, sess.Role)
	return nil
}

func (a *app) whoami() error {
	sess := a.api.Session().Current()
	if sess.Token == "" {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", sess.Email, sess.Role)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	categories, err := a.products.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Println(c)
	}
	return nil
}

func (a *app) listProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	var (
		search     = fs.String("search", "", "full-text search")
		categories = fs.String("categories", "", "comma-separated categories")
		brands     = fs.String("brands", "", "comma-separated brands")
		minPrice   = fs.Int64("min-price", 0, "minimum price in cents")
		maxPrice   = fs.Int64("max-price", 0, "maximum price in cents")
		minRating  = fs.Int("min-rating", 0, "minimum rating 1-5")
		inStock    = fs.Bool("in-stock", false, "only in-stock products")
		sort       = fs.String("sort", "", "sort preset")
		page       = fs.Int("page", 0, "page number")
		limit      = fs.Int("limit", 0, "page size")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var f domain.FilterSelection
	f.Search = *search
	f.Categories = commaList(*categories)
	f.Brands = commaList(*brands)
	if *minPrice > 0 {
		f.PriceMin = minPrice
	}
	if *maxPrice > 0 {
		f.PriceMax = maxPrice
	}
	if *minRating > 0 {
		f.MinRating = minRating
	}
	f.InStock = *inStock

	listing, err := a.products.Fetch(ctx, f, domain.Page{Number: *page, Size: *limit}, query.Sort(*sort))
	if err != nil {
		return err
	}
	for _, p := range listing.Products {
		fmt.Printf("%-36s  %-28s %-12s %8s  stock=%d\n",
			p.ID, p.Name, p.Brand, formatCents(p.EffectivePriceCents(), p.Currency), p.StockQuantity)
	}
	pg := listing.Pagination
	fmt.Printf("page %d/%d, %d products total\n", pg.Page, pg.Pages, pg.Total)
	return nil
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shop product <productId>")
	}
	p, err := a.products.FetchOne(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s — %s\n", p.Name, p.Brand, formatCents(p.EffectivePriceCents(), p.Currency))
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("rating %.1f (%d), stock %d\n", p.RatingAvg, p.RatingCount, p.StockQuantity)
	return nil
}

func (a *app) cartCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if err := a.carts.Fetch(ctx); err != nil {
			return err
		}
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: shop cart add <productId> [quantity]")
		}
		quantity := 1
		if len(args) > 2 {
			q, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("bad quantity %q", args[2])
			}
			quantity = q
		}
		if err := a.carts.Add(ctx, args[1], quantity); err != nil {
			return err
		}
	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: shop cart update <productId> <quantity>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[2])
		}
		if err := a.carts.Update(ctx, args[1], quantity); err != nil {
			return err
		}
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: shop cart remove <productId>")
		}
		if err := a.carts.Remove(ctx, args[1]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}

	snap := a.carts.Snapshot()
	for _, item := range snap.Items {
		fmt.Printf("%-36s  %-28s x%-3d %8s\n",
			item.Product.ID, item.Product.Name, item.Quantity,
			formatCents(item.Product.EffectivePriceCents(), item.Product.Currency))
	}
	if snap.Metadata != nil {
		m := snap.Metadata
		fmt.Printf("subtotal %s, shipping %s, tax %s, total %s\n",
			formatCents(m.SubtotalCents, m.Currency), formatCents(m.ShippingCents, m.Currency),
			formatCents(m.TaxCents, m.Currency), formatCents(m.TotalCents, m.Currency))
	} else {
		fmt.Println("cart is empty")
	}
	return nil
}

func (a *app) wishlistCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if err := a.wishlists.Fetch(ctx); err != nil {
			return err
		}
	case "add", "remove", "toggle":
		if len(args) != 2 {
			return fmt.Errorf("usage: shop wishlist %s <productId>", args[0])
		}
		// Membership-aware toggle needs the current list first.
		if err := a.wishlists.Fetch(ctx); err != nil {
			return err
		}
		var err error
		switch args[0] {
		case "add":
			err = a.wishlists.Add(ctx, args[1])
		case "remove":
			err = a.wishlists.Remove(ctx, args[1])
		case "toggle":
			err = a.wishlists.Toggle(ctx, args[1])
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown wishlist command %q", args[0])
	}

	snap := a.wishlists.Snapshot()
	if snap.Count == 0 {
		fmt.Println("wishlist is empty")
		return nil
	}
	for _, item := range snap.Items {
		fmt.Printf("%-36s  %-28s %8s\n",
			item.Product.ID, item.Product.Name,
			formatCents(item.Product.EffectivePriceCents(), item.Product.Currency))
	}
	return nil
}

func commaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func formatCents(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
