package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"velostore/internal/domain"
	"velostore/internal/storefront/query"
	"velostore/internal/storefront/rest"
	"velostore/internal/storefront/session"
)

func newTestFetcher(t *testing.T, handler http.Handler) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewFetcher(rest.New(srv.URL, sessions, 0, nil), nil)
}

func TestFetchListing(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("categories"); got != "mountain" {
			t.Errorf("categories = %q", got)
		}
		if got := r.URL.Query().Get("sortBy"); got != "price" {
			t.Errorf("sortBy = %q", got)
		}
		fmt.Fprint(w, `{"success":true,"data":{"products":[{"id":"p1","name":"Ridgeline 29er"}],"pagination":{"total":41,"page":2,"pages":4,"hasMore":true}}}`)
	}))

	listing, err := f.Fetch(context.Background(),
		domain.FilterSelection{Categories: []string{"mountain"}},
		domain.Page{Number: 2, Size: 12},
		query.SortPriceLowToHigh)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listing.Products) != 1 || listing.Products[0].ID != "p1" {
		t.Fatalf("products = %+v", listing.Products)
	}
	p := listing.Pagination
	if p.Total != 41 || p.Page != 2 || p.Pages != 4 || !p.HasMore {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestFetchNormalizesMissingPagination(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"products":null}}`)
	}))

	listing, err := f.Fetch(context.Background(), domain.FilterSelection{}, domain.Page{}, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if listing.Products == nil || len(listing.Products) != 0 {
		t.Fatalf("products = %#v", listing.Products)
	}
	p := listing.Pagination
	if p.Total != 0 || p.Page != 1 || p.Pages != 1 || p.HasMore {
		t.Fatalf("pagination = %+v, want defaults", p)
	}
}

// A newer fetch cancels the one in flight; the stale response is discarded
// and the superseded caller learns why.
func TestFetchSupersedesInFlightRequest(t *testing.T) {
	firstReceived := make(chan struct{})
	var requests int32
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			close(firstReceived)
			<-r.Context().Done()
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"products":[{"id":"p2"}],"pagination":{"total":1,"page":1,"pages":1,"hasMore":false}}}`)
	}))

	type result struct {
		listing *Listing
		err     error
	}
	first := make(chan result, 1)
	go func() {
		l, err := f.Fetch(context.Background(), domain.FilterSelection{Search: "old"}, domain.Page{}, "")
		first <- result{l, err}
	}()
	<-firstReceived

	listing, err := f.Fetch(context.Background(), domain.FilterSelection{Search: "new"}, domain.Page{}, "")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(listing.Products) != 1 || listing.Products[0].ID != "p2" {
		t.Fatalf("second listing = %+v", listing.Products)
	}

	got := <-first
	if !errors.Is(got.err, ErrSuperseded) {
		t.Fatalf("first fetch err = %v, want ErrSuperseded", got.err)
	}
	if got.listing != nil {
		t.Fatal("superseded fetch must not deliver a listing")
	}
}

func TestFetchOne(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/products/p1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":{"product":{"id":"p1","name":"Ridgeline 29er"}}}`)
	}))

	p, err := f.FetchOne(context.Background(), "p1")
	if err != nil {
		t.Fatalf("fetch one: %v", err)
	}
	if p == nil || p.Name != "Ridgeline 29er" {
		t.Fatalf("product = %+v", p)
	}
}

func TestFetchOneNotFound(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"message":"product not found"}`)
	}))

	_, err := f.FetchOne(context.Background(), "missing")
	var apiErr *rest.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestCategories(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"categories":["gravel","mountain","road"]}}`)
	}))

	got, err := f.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(got) != 3 || got[0] != "gravel" {
		t.Fatalf("categories = %v", got)
	}
}
