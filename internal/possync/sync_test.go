package possync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
)

type fakeMenuStore struct {
	items    []model.MenuItem
	syncedAt time.Time
	calls    int
	err      error
}

func (f *fakeMenuStore) ReplaceAll(ctx context.Context, items []model.MenuItem, syncedAt time.Time) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.items = items
	f.syncedAt = syncedAt
	return nil
}

func TestSyncerRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":"p-1","name":"Flat White","category":"coffee","price_cents":1600,"available":true},
			{"id":"p-2","name":"Cheesecake","category":"desserts","price_cents":2200,"available":false},
			{"id":"","name":"Broken row","category":"coffee","price_cents":100,"available":true}
		]}`))
	}))
	defer srv.Close()

	store := &fakeMenuStore{}
	s := NewSyncer(srv.URL, store, clock.NewFixed(now))

	n, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 {
		t.Fatalf("synced %d items, want 2 (row without pos id skipped)", n)
	}
	if len(store.items) != 2 {
		t.Fatalf("store got %d items, want 2", len(store.items))
	}
	if store.items[0].PosID != "p-1" || store.items[0].PriceCents != 1600 {
		t.Errorf("unexpected first item: %+v", store.items[0])
	}
	if !store.syncedAt.Equal(now) {
		t.Errorf("syncedAt = %v, want %v", store.syncedAt, now)
	}
}

func TestSyncerRunUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := &fakeMenuStore{}
	s := NewSyncer(srv.URL, store, clock.NewSystem())

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error for non-200 POS response")
	}
	if store.calls != 0 {
		t.Fatalf("store touched %d times on failed pull, want 0", store.calls)
	}
}

func TestSyncerRunBadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	store := &fakeMenuStore{}
	s := NewSyncer(srv.URL, store, clock.NewSystem())

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
	if store.calls != 0 {
		t.Fatalf("store touched %d times on bad payload, want 0", store.calls)
	}
}
