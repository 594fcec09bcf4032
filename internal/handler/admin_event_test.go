package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/repository"
)

type fakeEventStore struct {
	rows   []model.Event
	nextID uint64
}

func (f *fakeEventStore) ListAll(ctx context.Context) ([]model.Event, error) {
	return f.rows, nil
}

func (f *fakeEventStore) ListPublished(ctx context.Context, from time.Time) ([]model.Event, error) {
	out := []model.Event{}
	for _, ev := range f.rows {
		if ev.Published && ev.EndsAt.After(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	for _, ev := range f.rows {
		if ev.ID == id {
			return ev, nil
		}
	}
	return model.Event{}, repository.ErrEventNotFound
}

func (f *fakeEventStore) Create(ctx context.Context, ev *model.Event) error {
	f.nextID++
	ev.ID = f.nextID
	f.rows = append(f.rows, *ev)
	return nil
}

func (f *fakeEventStore) Update(ctx context.Context, ev *model.Event) error {
	for i, r := range f.rows {
		if r.ID == ev.ID {
			f.rows[i] = *ev
			return nil
		}
	}
	return repository.ErrEventNotFound
}

func (f *fakeEventStore) Delete(ctx context.Context, id uint64) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrEventNotFound
}

func TestAdminEventCreateNormalizesTimes(t *testing.T) {
	t.Parallel()
	store := &fakeEventStore{}
	h := NewAdminEventHandler(store, booking.DefaultVenue())

	rec, body := doJSON(t, h.Create, http.MethodPost, "/v1/admin/events",
		`{"title":"Jazz night","date":"2025-06-20","start_time":"19:00","end_time":"21:00",
		  "location":"main hall","published":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if body["start_time"] != "19:00" || body["date"] != "2025-06-20" {
		t.Errorf("local times not echoed back: %v", body)
	}
	// Asia/Almaty is UTC+5, so 19:00 local stores as 14:00 UTC.
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(store.rows))
	}
	want := time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC)
	if !store.rows[0].StartsAt.Equal(want) {
		t.Errorf("stored start = %v, want %v", store.rows[0].StartsAt, want)
	}
}

func TestAdminEventCreateValidation(t *testing.T) {
	t.Parallel()
	store := &fakeEventStore{}
	h := NewAdminEventHandler(store, booking.DefaultVenue())

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"date":"2025-06-20","start_time":"19:00","end_time":"21:00"}`},
		{"bad date", `{"title":"x","date":"20 June","start_time":"19:00","end_time":"21:00"}`},
		{"inverted interval", `{"title":"x","date":"2025-06-20","start_time":"21:00","end_time":"19:00"}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := doJSON(t, h.Create, http.MethodPost, "/v1/admin/events", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminEventUpdateNotFound(t *testing.T) {
	t.Parallel()
	store := &fakeEventStore{}
	h := NewAdminEventHandler(store, booking.DefaultVenue())

	rec, _ := doJSON(t, h.Update, http.MethodPut, "/v1/admin/events/7",
		`{"title":"x","date":"2025-06-20","start_time":"19:00","end_time":"21:00"}`, "id", "7")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAdminEventDelete(t *testing.T) {
	t.Parallel()
	store := &fakeEventStore{}
	h := NewAdminEventHandler(store, booking.DefaultVenue())
	ev := model.Event{Title: "Jazz night", StartsAt: time.Now(), EndsAt: time.Now().Add(time.Hour)}
	if err := store.Create(context.Background(), &ev); err != nil {
		t.Fatal(err)
	}

	rec, _ := doJSON(t, h.Delete, http.MethodDelete, "/v1/admin/events/1", "", "id", "1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(store.rows) != 0 {
		t.Fatalf("stored %d rows after delete, want 0", len(store.rows))
	}
}
