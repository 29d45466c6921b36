package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"velostore/internal/domain"
)

func TestGetWishlistHandler(t *testing.T) {
	lists := &stubWishlistService{list: &domain.Wishlist{
		Items: []domain.WishlistItem{{Product: domain.Product{ID: "p1", Name: "Ridgeline 29er"}}},
	}}
	router := testRouter(t, Deps{WishlistSvc: lists})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/users/wishlist", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"p1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddWishlistItemHandler_UnknownProduct(t *testing.T) {
	lists := &stubWishlistService{addErr: domain.ErrNotFound}
	router := testRouter(t, Deps{WishlistSvc: lists})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/products/missing", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRemoveWishlistItemHandler(t *testing.T) {
	lists := &stubWishlistService{list: &domain.Wishlist{Items: []domain.WishlistItem{}}}
	router := testRouter(t, Deps{WishlistSvc: lists})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/users/products/p1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
