package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"velostore/internal/storefront/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return New(srv.URL, sessions, 0, nil), sessions
}

func TestDoDecodesEnvelopeData(t *testing.T) {
	api, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"name":"Ridgeline 29er"}}`))
	}))

	var out struct {
		Name string `json:"name"`
	}
	if err := api.Do(context.Background(), http.MethodGet, "/api/users/products/p1", nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.Name != "Ridgeline 29er" {
		t.Fatalf("name = %q", out.Name)
	}
}

func TestDoInjectsBearerToken(t *testing.T) {
	var gotAuth string
	api, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	if err := sessions.Set("tok-42", "user", "a@b.c"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := api.Do(context.Background(), http.MethodGet, "/api/users/cart", nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok-42" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestDoFailureEnvelope(t *testing.T) {
	api, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"insufficient stock"}`))
	}))

	err := api.Do(context.Background(), http.MethodPost, "/api/users/cart/add", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "insufficient stock" {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestDoSuccessFalseWithOKStatus(t *testing.T) {
	api, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))

	err := api.Do(context.Background(), http.MethodGet, "/api/users/cart", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "nope" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	api, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid or expired token"}`))
	}))
	if err := sessions.Set("stale", "user", "a@b.c"); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := api.Do(context.Background(), http.MethodGet, "/api/users/cart", nil, nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if sessions.Token() != "" {
		t.Fatal("session not cleared after 401")
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	api := New(srv.URL, sessions, 0, nil)
	srv.Close()

	err := api.Do(context.Background(), http.MethodGet, "/api/users/products", nil, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestLoginPersistsSession(t *testing.T) {
	api, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"token":"tok-9","role":"user","email":"rider@example.com"}}`))
	}))

	sess, err := api.Login(context.Background(), "rider@example.com", "Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-9" || sess.Role != "user" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sessions.Token() != "tok-9" || sessions.Email() != "rider@example.com" {
		t.Fatal("session not persisted")
	}
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	api, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false}`))
	}))
	if err := sessions.Set("tok", "user", "a@b.c"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := api.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.Token() != "" {
		t.Fatal("session survived logout")
	}
}

func TestRequireAuth(t *testing.T) {
	api, sessions := newTestClient(t, http.NotFoundHandler())

	if err := api.RequireAuth(); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := sessions.Set("tok", "user", "a@b.c"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := api.RequireAuth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
