package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
)

type fakeMenuStore struct {
	items []model.MenuItem
}

func (f *fakeMenuStore) List(ctx context.Context) ([]model.MenuItem, error) {
	return f.items, nil
}

func newPublicFixture(events *fakeEventStore, menu *fakeMenuStore) *PublicHandler {
	if events == nil {
		events = &fakeEventStore{}
	}
	if menu == nil {
		menu = &fakeMenuStore{}
	}
	return NewPublicHandler(events, menu, booking.DefaultVenue(), clock.NewFixed(handlerTestNow))
}

func TestGetRooms(t *testing.T) {
	t.Parallel()
	h := newPublicFixture(nil, nil)

	rec, body := doJSON(t, h.GetRooms, http.MethodGet, "/v1/rooms", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	items, _ := body["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("got %d rooms, want 3", len(items))
	}
	var sawBuffer bool
	for _, it := range items {
		room := it.(map[string]any)
		if room["room"] == "second_hall" && room["buffer_minutes"] == float64(60) {
			sawBuffer = true
		}
	}
	if !sawBuffer {
		t.Error("second_hall does not expose its 60 minute buffer")
	}
}

func TestGetEventsShowsOnlyPublishedUpcoming(t *testing.T) {
	t.Parallel()
	events := &fakeEventStore{}
	future := handlerTestNow.Add(48 * time.Hour)
	past := handlerTestNow.Add(-48 * time.Hour)
	for _, ev := range []model.Event{
		{Title: "Published upcoming", StartsAt: future, EndsAt: future.Add(2 * time.Hour), Published: true},
		{Title: "Draft", StartsAt: future, EndsAt: future.Add(time.Hour), Published: false},
		{Title: "Already over", StartsAt: past, EndsAt: past.Add(time.Hour), Published: true},
	} {
		ev := ev
		if err := events.Create(context.Background(), &ev); err != nil {
			t.Fatal(err)
		}
	}
	h := newPublicFixture(events, nil)

	rec, body := doJSON(t, h.GetEvents, http.MethodGet, "/v1/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d events, want 1", len(items))
	}
	first := items[0].(map[string]any)
	if first["title"] != "Published upcoming" {
		t.Errorf("title = %v, want Published upcoming", first["title"])
	}
}

func TestGetMenu(t *testing.T) {
	t.Parallel()
	menu := &fakeMenuStore{items: []model.MenuItem{
		{Name: "Flat White", Category: "coffee", PriceCents: 1600, Available: true},
		{Name: "Raf", Category: "coffee", PriceCents: 1800, Available: false},
	}}
	h := newPublicFixture(nil, menu)

	rec, body := doJSON(t, h.GetMenu, http.MethodGet, "/v1/menu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	items, _ := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0].(map[string]any)
	if first["price_cents"] != float64(1600) {
		t.Errorf("price_cents = %v, want 1600", first["price_cents"])
	}
	if first["available"] != true {
		t.Errorf("available = %v, want true", first["available"])
	}
}
