package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"velostore/internal/domain"
	catalogsvc "velostore/internal/service/catalog"
)

type catalogService interface {
	List(ctx context.Context, in catalogsvc.ListInput) ([]domain.Product, domain.Pagination, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type listingResponse struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

func listProductsHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := parseListInput(c)
		products, pagination, err := catalog.List(c.Request.Context(), in)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load products")
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		respondOK(c, http.StatusOK, listingResponse{Products: products, Pagination: pagination})
	}
}

func getProductHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.Get(c.Request.Context(), c.Param("productId"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, "product not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to load product")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"product": p})
	}
}

func categoriesHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load categories")
			return
		}
		if categories == nil {
			categories = []string{}
		}
		respondOK(c, http.StatusOK, gin.H{"categories": categories})
	}
}

// parseListInput mirrors the query keys the storefront filter builder emits.
// Absent keys leave the filter untouched, so a bare request lists everything.
func parseListInput(c *gin.Context) catalogsvc.ListInput {
	var f domain.FilterSelection
	f.Search = strings.TrimSpace(c.Query("search"))
	f.Categories = splitList(c.Query("categories"))
	f.Brands = splitList(c.Query("brands"))
	f.Specs.FrameMaterial = c.Query("frameMaterial")
	f.Specs.WheelSize = c.Query("wheelSize")
	f.Specs.Suspension = c.Query("suspension")
	f.Specs.Colors = splitList(c.Query("colors"))

	if v, err := strconv.ParseInt(c.Query("minPrice"), 10, 64); err == nil {
		f.PriceMin = &v
	}
	if v, err := strconv.ParseInt(c.Query("maxPrice"), 10, 64); err == nil {
		f.PriceMax = &v
	}
	if v, err := strconv.Atoi(c.Query("minRating")); err == nil && v >= 1 && v <= 5 {
		f.MinRating = &v
	}
	f.InStock = c.Query("inStock") == "true"

	in := catalogsvc.ListInput{Filter: f}
	in.SortField = c.DefaultQuery("sortBy", "featured")
	in.SortDesc = c.DefaultQuery("sortOrder", "desc") != "asc"
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		in.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		in.Limit = v
	}
	return in
}

func splitList(raw string) []string {
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
