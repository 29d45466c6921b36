package wishlist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"velostore/internal/storefront/rest"
	"velostore/internal/storefront/session"
)

func listJSON(ids ...string) string {
	out := `{"success":true,"data":{"items":[`
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"product":{"id":%q}}`, id)
	}
	return out + `]}}`
}

func newTestCache(t *testing.T, handler http.Handler, withToken bool) *Cache {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if withToken {
		if err := sessions.Set("tok", "user", "a@b.c"); err != nil {
			t.Fatalf("set session: %v", err)
		}
	}
	return NewCache(rest.New(srv.URL, sessions, 0, nil), nil)
}

func TestFetchPopulatesCache(t *testing.T) {
	c := newTestCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/wishlist" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, listJSON("p1", "p2"))
	}), true)

	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	snap := c.Snapshot()
	if !snap.Initialized || snap.Count != 2 {
		t.Fatalf("initialized=%v count=%d", snap.Initialized, snap.Count)
	}
	if !c.Contains("p2") || c.Contains("p9") {
		t.Fatal("membership lookup wrong")
	}
}

func TestFetchWithoutSessionSkipsNetwork(t *testing.T) {
	var calls int32
	c := newTestCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}), false)

	if err := c.Fetch(context.Background()); !errors.Is(err, rest.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("server should not be called without a session")
	}
	if !c.Snapshot().Initialized {
		t.Fatal("cache should be initialized after the attempt")
	}
}

func TestAddReplacesCache(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		fmt.Fprint(w, listJSON("p1"))
	}), true)

	if err := c.Add(context.Background(), "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/users/products/p1" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if c.Count() != 1 {
		t.Fatalf("count = %d", c.Count())
	}
}

func TestToggle(t *testing.T) {
	var methods []string
	c := newTestCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			fmt.Fprint(w, listJSON("p1"))
			return
		}
		fmt.Fprint(w, listJSON())
	}), true)

	if err := c.Toggle(context.Background(), "p1"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !c.Contains("p1") {
		t.Fatal("product missing after first toggle")
	}
	if err := c.Toggle(context.Background(), "p1"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if c.Contains("p1") {
		t.Fatal("product present after second toggle")
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodDelete {
		t.Fatalf("methods = %v", methods)
	}
}

func TestFailedRequestPreservesCache(t *testing.T) {
	var fail int32
	c := newTestCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&fail) == 1 {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"success":false,"message":"product not found"}`)
			return
		}
		fmt.Fprint(w, listJSON("p1"))
	}), true)

	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	atomic.StoreInt32(&fail, 1)

	err := c.Add(context.Background(), "missing")
	var apiErr *rest.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if c.Count() != 1 || !c.Contains("p1") {
		t.Fatal("cache changed after failure")
	}
}
