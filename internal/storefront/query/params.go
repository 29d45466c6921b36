package query

import (
	"net/url"
	"strconv"
	"strings"

	"velostore/internal/domain"
)

// Param is a single query-string pair. Params are kept as an ordered slice so
// the serialized URL is deterministic for a given selection.
type Param struct {
	Key   string
	Value string
}

// Sort names a user-facing sort preset. Each preset maps to a sortBy/sortOrder
// pair understood by the listing endpoint; unknown values fall back to the
// featured ordering.
type Sort string

const (
	SortFeatured       Sort = "featured"
	SortPriceLowToHigh Sort = "priceLowToHigh"
	SortPriceHighToLow Sort = "priceHighToLow"
	SortRating         Sort = "rating"
	SortNewest         Sort = "newest"
	SortNameAZ         Sort = "nameAZ"
)

type sortSpec struct {
	field string
	order string
}

var sortSpecs = map[Sort]sortSpec{
	SortFeatured:       {"featured", "desc"},
	SortPriceLowToHigh: {"price", "asc"},
	SortPriceHighToLow: {"price", "desc"},
	SortRating:         {"rating", "desc"},
	SortNewest:         {"newest", "desc"},
	SortNameAZ:         {"name", "asc"},
}

// BuildParams serializes a filter selection, page request and sort preset
// into query parameters. It is pure: empty or zero-valued fields are omitted,
// so an empty selection yields no params at all. Multi-value fields are
// comma-joined.
func BuildParams(f domain.FilterSelection, page domain.Page, sort Sort) []Param {
	var params []Param
	add := func(key, value string) {
		params = append(params, Param{Key: key, Value: value})
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		add("search", s)
	}
	if len(f.Categories) > 0 {
		add("categories", strings.Join(f.Categories, ","))
	}
	if len(f.Brands) > 0 {
		add("brands", strings.Join(f.Brands, ","))
	}
	if f.Specs.FrameMaterial != "" {
		add("frameMaterial", f.Specs.FrameMaterial)
	}
	if f.Specs.WheelSize != "" {
		add("wheelSize", f.Specs.WheelSize)
	}
	if f.Specs.Suspension != "" {
		add("suspension", f.Specs.Suspension)
	}
	if len(f.Specs.Colors) > 0 {
		add("colors", strings.Join(f.Specs.Colors, ","))
	}
	if f.PriceMin != nil {
		add("minPrice", strconv.FormatInt(*f.PriceMin, 10))
	}
	if f.PriceMax != nil {
		add("maxPrice", strconv.FormatInt(*f.PriceMax, 10))
	}
	if f.MinRating != nil {
		add("minRating", strconv.Itoa(*f.MinRating))
	}
	if f.InStock {
		add("inStock", "true")
	}
	if sort != "" {
		spec, ok := sortSpecs[sort]
		if !ok {
			spec = sortSpecs[SortFeatured]
		}
		add("sortBy", spec.field)
		add("sortOrder", spec.order)
	}
	if page.Number > 0 {
		add("page", strconv.Itoa(page.Number))
	}
	if page.Size > 0 {
		add("limit", strconv.Itoa(page.Size))
	}
	return params
}

// Encode renders params as a query string, preserving their order.
func Encode(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
