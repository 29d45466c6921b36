package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"velostore/internal/domain"
)

func authedRequest(method, url, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer valid-token")
	return req
}

func TestGetCartHandler(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{
		Items: []domain.CartItem{{Product: domain.Product{ID: "p1"}, Quantity: 2}},
		Metadata: &domain.CartMetadata{
			SubtotalCents: 4000,
			TotalCents:    5140,
			Currency:      "USD",
		},
	}}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/users/cart", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	got := rec.Body.String()
	if !strings.Contains(got, `"totalCents":5140`) {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestAddCartItemHandler(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/cart/add", `{"productId":"p1","quantity":2}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastID != "p1" || carts.lastQty != 2 {
		t.Fatalf("service called with id=%q qty=%d", carts.lastID, carts.lastQty)
	}
}

func TestAddCartItemHandler_DefaultQuantity(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/cart/add", `{"productId":"p1"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if carts.lastQty != 1 {
		t.Fatalf("quantity = %d, want default 1", carts.lastQty)
	}
}

func TestAddCartItemHandler_MissingProductID(t *testing.T) {
	router := testRouter(t, Deps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/cart/add", `{"quantity":2}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCartItemHandler_InsufficientStock(t *testing.T) {
	carts := &stubCartService{addErr: domain.ErrInsufficientStock}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/cart/add", `{"productId":"p1","quantity":99}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "insufficient stock") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUpdateCartItemHandler(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/users/cart/items/p1", `{"quantity":4}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastID != "p1" || carts.lastQty != 4 {
		t.Fatalf("service called with id=%q qty=%d", carts.lastID, carts.lastQty)
	}
}

func TestRemoveCartItemHandler(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: carts})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/users/cart/items/p1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if carts.lastID != "p1" {
		t.Fatalf("service called with id=%q", carts.lastID)
	}
}
