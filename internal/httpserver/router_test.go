package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"velostore/internal/domain"
	catalogsvc "velostore/internal/service/catalog"
	usersvc "velostore/internal/service/user"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCatalogService struct {
	products   []domain.Product
	pagination domain.Pagination
	product    *domain.Product
	categories []string
	getErr     error
	lastList   catalogsvc.ListInput
}

func (s *stubCatalogService) List(_ context.Context, in catalogsvc.ListInput) ([]domain.Product, domain.Pagination, error) {
	s.lastList = in
	return s.products, s.pagination, nil
}

func (s *stubCatalogService) Get(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.getErr
}

func (s *stubCatalogService) Categories(_ context.Context) ([]string, error) {
	return s.categories, nil
}

type stubCartService struct {
	cart    *domain.Cart
	addErr  error
	lastQty int
	lastID  string
}

func (s *stubCartService) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) Add(_ context.Context, _, productID string, quantity int) (*domain.Cart, error) {
	s.lastID, s.lastQty = productID, quantity
	return s.cart, s.addErr
}

func (s *stubCartService) Update(_ context.Context, _, productID string, quantity int) (*domain.Cart, error) {
	s.lastID, s.lastQty = productID, quantity
	return s.cart, nil
}

func (s *stubCartService) Remove(_ context.Context, _, productID string) (*domain.Cart, error) {
	s.lastID = productID
	return s.cart, nil
}

type stubWishlistService struct {
	list   *domain.Wishlist
	addErr error
}

func (s *stubWishlistService) Get(_ context.Context, _ string) (*domain.Wishlist, error) {
	return s.list, nil
}

func (s *stubWishlistService) Add(_ context.Context, _, _ string) (*domain.Wishlist, error) {
	return s.list, s.addErr
}

func (s *stubWishlistService) Remove(_ context.Context, _, _ string) (*domain.Wishlist, error) {
	return s.list, nil
}

type stubUserService struct {
	user      *domain.User
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubUserService) Signup(_ context.Context, _ usersvc.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, "access-token", s.loginErr
}

func (s *stubUserService) LookupByToken(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.lookupErr
}

func (s *stubUserService) Logout(_ context.Context, _ string) error {
	return nil
}

func (s *stubUserService) AccessTTLSeconds() int {
	return 3600
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.CatalogSvc == nil {
		deps.CatalogSvc = &stubCatalogService{}
	}
	if deps.CartSvc == nil {
		deps.CartSvc = &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	}
	if deps.WishlistSvc == nil {
		deps.WishlistSvc = &stubWishlistService{list: &domain.Wishlist{Items: []domain.WishlistItem{}}}
	}
	if deps.UserSvc == nil {
		deps.UserSvc = &stubUserService{user: &domain.User{ID: "u1", Email: "rider@example.com", Role: "user"}}
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestBuildRouterRejectsMissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := testRouter(t, Deps{UserSvc: &stubUserService{lookupErr: usersvc.ErrInvalidToken}})

	req := httptest.NewRequest(http.MethodGet, "/api/users/cart", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "keep-me")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "keep-me" {
		t.Fatalf("X-Request-ID = %q, want caller's id", got)
	}
}
