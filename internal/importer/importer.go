package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"velostore/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products. A row
// with an empty slug continues the previous product and may only add images.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Slug          string
	Name          string
	Brand         string
	Desc          string
	PriceCents    int64
	DiscountCents int64
	Currency      string
	Stock         int
	Categories    []string
	FrameMaterial string
	WheelSize     string
	Suspension    string
	Colors        []string
	ImageURLs     []string
}

// Run parses CSV rows and upserts products grouped by slug.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Slug != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Brand == "" || row.PriceCents == 0 || row.Currency == "" {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", row.Slug)
	}

	specs := map[string]interface{}{}
	if row.FrameMaterial != "" {
		specs["frameMaterial"] = row.FrameMaterial
	}
	if row.WheelSize != "" {
		specs["wheelSize"] = row.WheelSize
	}
	if row.Suspension != "" {
		specs["suspension"] = row.Suspension
	}
	if len(row.Colors) > 0 {
		specs["colors"] = row.Colors
	}

	p := domain.Product{
		Slug:          row.Slug,
		Name:          row.Name,
		Brand:         row.Brand,
		Description:   row.Desc,
		PriceCents:    row.PriceCents,
		DiscountCents: row.DiscountCents,
		Currency:      row.Currency,
		Images:        row.ImageURLs,
		StockQuantity: row.Stock,
		Specs:         specs,
		Categories:    row.Categories,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Slug, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	slug := pick(record, index, "slug")
	imageURL := pick(record, index, "image_url")

	if slug == "" && imageURL == "" {
		return nil
	}

	row := &csvRow{
		Slug:          slug,
		Name:          pick(record, index, "name"),
		Brand:         pick(record, index, "brand"),
		Desc:          pick(record, index, "description"),
		Currency:      pick(record, index, "currency"),
		Categories:    splitList(pick(record, index, "categories")),
		FrameMaterial: pick(record, index, "frame_material"),
		WheelSize:     pick(record, index, "wheel_size"),
		Suspension:    pick(record, index, "suspension"),
		Colors:        splitList(pick(record, index, "colors")),
	}
	if v := pick(record, index, "price_cents"); v != "" {
		row.PriceCents, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := pick(record, index, "discount_cents"); v != "" {
		row.DiscountCents, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := pick(record, index, "stock"); v != "" {
		row.Stock, _ = strconv.Atoi(v)
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
