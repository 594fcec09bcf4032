package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
)

// PublicEventStore lists the published events for the site calendar.
type PublicEventStore interface {
	ListPublished(ctx context.Context, from time.Time) ([]model.Event, error)
}

// PublicMenuStore lists the synced menu. *repository.MenuRepo satisfies it.
type PublicMenuStore interface {
	List(ctx context.Context) ([]model.MenuItem, error)
}

// PublicHandler serves the unauthenticated site endpoints: room
// information for the booking form, the events calendar and the menu.
type PublicHandler struct {
	Events PublicEventStore
	Menu   PublicMenuStore
	Venue  booking.Venue
	Clock  clock.Clock
}

// NewPublicHandler constructs a PublicHandler. All dependencies must be non-nil.
func NewPublicHandler(events PublicEventStore, menu PublicMenuStore, venue booking.Venue, clk clock.Clock) *PublicHandler {
	if events == nil || menu == nil || clk == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Events: events, Menu: menu, Venue: venue, Clock: clk}
}

// GetRooms handles GET /v1/rooms. The booking form uses the capacity
// range to validate party size client-side and shows the turnaround gap
// for rooms that have one; the server remains the authority.
func (h *PublicHandler) GetRooms(c echo.Context) error {
	type roomJSON struct {
		Room          string `json:"room"`
		Label         string `json:"label"`
		MinPeople     int    `json:"min_people"`
		MaxPeople     int    `json:"max_people"`
		BufferMinutes int    `json:"buffer_minutes"`
	}
	items := []roomJSON{}
	for _, p := range booking.Rooms() {
		items = append(items, roomJSON{
			Room:          string(p.Room),
			Label:         p.Label,
			MinPeople:     p.MinPeople,
			MaxPeople:     p.MaxPeople,
			BufferMinutes: int(p.Buffer.Minutes()),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// eventJSON is the public shape of a calendar event with times in
// venue-local form.
type eventJSON struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Location    *string `json:"location,omitempty"`
}

func (h *PublicHandler) toEventJSON(ev model.Event) eventJSON {
	return eventJSON{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        h.Venue.LocalDate(ev.StartsAt),
		StartTime:   h.Venue.LocalClock(ev.StartsAt),
		EndTime:     h.Venue.LocalClock(ev.EndsAt),
		Location:    ev.Location,
	}
}

// GetEvents handles GET /v1/events. Only published events that have not
// yet ended are returned.
func (h *PublicHandler) GetEvents(c echo.Context) error {
	events, err := h.Events.ListPublished(c.Request().Context(), h.Clock.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		items = append(items, h.toEventJSON(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMenu handles GET /v1/menu. Items come straight from the synced
// menu_items table; prices are integer cents so clients format currency.
func (h *PublicHandler) GetMenu(c echo.Context) error {
	items, err := h.Menu.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type itemJSON struct {
		Name       string `json:"name"`
		Category   string `json:"category"`
		PriceCents uint32 `json:"price_cents"`
		Available  bool   `json:"available"`
	}
	out := make([]itemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, itemJSON{
			Name:       it.Name,
			Category:   it.Category,
			PriceCents: it.PriceCents,
			Available:  it.Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
