package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/queue"
	"github.com/steppecoffee/cafe-booking/internal/repository"
)

// fakeReservationStore is an in-memory stand-in for
// *repository.ReservationRepo. WithTx just runs the function; the
// serialization the real store provides is not under test here.
type fakeReservationStore struct {
	rows   []model.Reservation
	nextID uint64
	now    time.Time
}

func newFakeStore(now time.Time) *fakeReservationStore {
	return &fakeReservationStore{nextID: 1, now: now}
}

func (f *fakeReservationStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeReservationStore) ListForDay(ctx context.Context, room, date string, statuses []string) ([]model.Reservation, error) {
	want := map[string]bool{}
	for _, s := range statuses {
		want[s] = true
	}
	out := []model.Reservation{}
	for _, r := range f.rows {
		if r.Room == room && r.Date == date && want[r.Status] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) Create(ctx context.Context, res *model.Reservation) error {
	res.ID = f.nextID
	f.nextID++
	res.CreatedAt = f.now
	res.UpdatedAt = f.now
	f.rows = append(f.rows, *res)
	return nil
}

func (f *fakeReservationStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (f *fakeReservationStore) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range f.rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
	for i, r := range f.rows {
		if r.ID == id {
			if r.Status == status {
				return repository.ErrNoChange
			}
			f.rows[i].Status = status
			return nil
		}
	}
	return repository.ErrReservationNotFound
}

func (f *fakeReservationStore) Delete(ctx context.Context, id uint64) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrReservationNotFound
}

// seed inserts an existing reservation with a venue-local interval.
func (f *fakeReservationStore) seed(t *testing.T, v booking.Venue, room, date, start, end, status string) model.Reservation {
	t.Helper()
	d, err := booking.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	sm, err := booking.ParseClock(start)
	if err != nil {
		t.Fatal(err)
	}
	em, err := booking.ParseClock(end)
	if err != nil {
		t.Fatal(err)
	}
	res := model.Reservation{
		Room:          room,
		Date:          date,
		StartsAt:      v.Instant(d, sm),
		EndsAt:        v.Instant(d, em),
		PartySize:     4,
		Status:        status,
		OrganizerName: "Seeded",
		Phone:         "+7 700 000 0000",
	}
	if err := f.Create(context.Background(), &res); err != nil {
		t.Fatal(err)
	}
	return res
}

// testNow is well before the booking dates used in the tests so the
// past-datetime check never interferes unless a test wants it to.
var handlerTestNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newBookingHandler(t *testing.T, store *fakeReservationStore,
	notify func(ctx context.Context, ev queue.BookingRequestedEvent) error) *BookingHandler {
	t.Helper()
	resolver := &booking.Resolver{Venue: booking.DefaultVenue()}
	return NewBookingHandler(store, resolver, clock.NewFixed(handlerTestNow), notify)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, out
}

const validBookingBody = `{
	"organizer_name": "Aizhan",
	"booking_date": "2025-06-15",
	"start_time": "14:00",
	"end_time": "16:00",
	"num_people": 8,
	"selected_room": "main_hall",
	"phone_number": "+7 701 123 4567",
	"comments": "birthday"
}`

func TestBookingCreatePending(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	h := newBookingHandler(t, store, nil)

	rec, body := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", validBookingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != "pending" {
		t.Errorf("status = %v, want pending", body["status"])
	}
	if body["start_time"] != "14:00" || body["end_time"] != "16:00" {
		t.Errorf("interval echoed as %v-%v, want 14:00-16:00", body["start_time"], body["end_time"])
	}
	if body["comments"] != "birthday" {
		t.Errorf("comments = %v, want birthday", body["comments"])
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(store.rows))
	}
}

func TestBookingCreateQueuedOnPendingOverlap(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	v := booking.DefaultVenue()
	store.seed(t, v, "main_hall", "2025-06-15", "15:00", "17:00", "pending")
	h := newBookingHandler(t, store, nil)

	rec, body := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", validBookingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != "queued" {
		t.Errorf("status = %v, want queued", body["status"])
	}
}

func TestBookingCreateConfirmedConflict(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	v := booking.DefaultVenue()
	store.seed(t, v, "main_hall", "2025-06-15", "15:00", "17:00", "confirmed")
	h := newBookingHandler(t, store, nil)

	rec, body := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", validBookingBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if body["code"] != "confirmed_overlap" {
		t.Errorf("code = %v, want confirmed_overlap", body["code"])
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want only the seeded one", len(store.rows))
	}
}

func TestBookingCreateValidation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name: "missing organizer name",
			body: `{"booking_date":"2025-06-15","start_time":"14:00","end_time":"16:00",
				"num_people":8,"selected_room":"main_hall","phone_number":"+7 701 123 4567"}`,
			wantCode: "missing_field",
		},
		{
			name: "party too large for room",
			body: `{"organizer_name":"Aizhan","booking_date":"2025-06-15","start_time":"14:00",
				"end_time":"16:00","num_people":50,"selected_room":"main_hall","phone_number":"+7 701 123 4567"}`,
			wantCode: "capacity",
		},
		{
			name: "inverted interval",
			body: `{"organizer_name":"Aizhan","booking_date":"2025-06-15","start_time":"16:00",
				"end_time":"14:00","num_people":8,"selected_room":"main_hall","phone_number":"+7 701 123 4567"}`,
			wantCode: "inverted_interval",
		},
		{
			name: "outside opening hours",
			body: `{"organizer_name":"Aizhan","booking_date":"2025-06-15","start_time":"21:00",
				"end_time":"23:00","num_people":8,"selected_room":"main_hall","phone_number":"+7 701 123 4567"}`,
			wantCode: "outside_hours",
		},
		{
			name: "booking in the past",
			body: `{"organizer_name":"Aizhan","booking_date":"2024-01-10","start_time":"14:00",
				"end_time":"16:00","num_people":8,"selected_room":"main_hall","phone_number":"+7 701 123 4567"}`,
			wantCode: "past_datetime",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore(handlerTestNow)
			h := newBookingHandler(t, store, nil)

			rec, body := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if body["code"] != tc.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tc.wantCode)
			}
			if len(store.rows) != 0 {
				t.Errorf("stored %d rows, want 0", len(store.rows))
			}
		})
	}
}

func TestBookingCreateIgnoresStatusOverride(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	h := newBookingHandler(t, store, nil)

	body := strings.Replace(validBookingBody, `"comments": "birthday"`,
		`"comments": "birthday", "status_to_set": "confirmed"`, 1)
	rec, resp := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if resp["status"] != "pending" {
		t.Errorf("public endpoint honored status_to_set: status = %v, want pending", resp["status"])
	}
}

func TestBookingCreateTrustedOverride(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	h := newBookingHandler(t, store, nil)

	body := strings.Replace(validBookingBody, `"comments": "birthday"`,
		`"comments": "birthday", "status_to_set": "confirmed"`, 1)
	rec, resp := doJSON(t, h.CreateTrusted, http.MethodPost, "/v1/admin/reservations", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if resp["status"] != "confirmed" {
		t.Errorf("status = %v, want confirmed", resp["status"])
	}
}

func TestBookingCreateTrustedOverrideStillRejectsConfirmedOverlap(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	v := booking.DefaultVenue()
	store.seed(t, v, "main_hall", "2025-06-15", "15:00", "17:00", "confirmed")
	h := newBookingHandler(t, store, nil)

	body := strings.Replace(validBookingBody, `"comments": "birthday"`,
		`"comments": "birthday", "status_to_set": "confirmed"`, 1)
	rec, _ := doJSON(t, h.CreateTrusted, http.MethodPost, "/v1/admin/reservations", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: override must not bypass confirmed overlap", rec.Code)
	}
}

func TestBookingCreatePublishesNotification(t *testing.T) {
	t.Parallel()
	store := newFakeStore(handlerTestNow)
	got := make(chan queue.BookingRequestedEvent, 1)
	h := newBookingHandler(t, store, func(ctx context.Context, ev queue.BookingRequestedEvent) error {
		got <- ev
		return nil
	})

	rec, _ := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", validBookingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	select {
	case ev := <-got:
		if ev.Room != "main_hall" || ev.StartLocal != "14:00" || ev.Status != "pending" {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.ReservationID == 0 {
			t.Error("event carries no reservation id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never published")
	}
}
