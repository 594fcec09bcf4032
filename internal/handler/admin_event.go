package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/repository"
)

// EventStore is the full event repository surface used by the admin
// calendar screens. *repository.EventRepo satisfies it.
type EventStore interface {
	ListAll(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	Create(ctx context.Context, ev *model.Event) error
	Update(ctx context.Context, ev *model.Event) error
	Delete(ctx context.Context, id uint64) error
}

// AdminEventHandler manages the public events calendar. Event times are
// submitted as venue-local date plus HH:mm values and go through the
// same normalization as bookings.
type AdminEventHandler struct {
	Store EventStore
	Venue booking.Venue
}

// NewAdminEventHandler constructs the handler; the store must be non-nil.
func NewAdminEventHandler(store EventStore, venue booking.Venue) *AdminEventHandler {
	if store == nil {
		panic("nil store passed to NewAdminEventHandler")
	}
	return &AdminEventHandler{Store: store, Venue: venue}
}

type eventBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Published   bool   `json:"published"`
}

// parseEventBody validates an event payload and converts its local
// times to the stored UTC interval.
func (h *AdminEventHandler) parseEventBody(body eventBody) (model.Event, error) {
	if strings.TrimSpace(body.Title) == "" {
		return model.Event{}, errors.New("title is required")
	}
	date, err := booking.ParseDate(body.Date)
	if err != nil {
		return model.Event{}, err
	}
	startMin, err := booking.ParseClock(body.StartTime)
	if err != nil {
		return model.Event{}, err
	}
	endMin, err := booking.ParseClock(body.EndTime)
	if err != nil {
		return model.Event{}, err
	}
	if startMin >= endMin {
		return model.Event{}, errors.New("end time must be after start time")
	}
	return model.Event{
		Title:       body.Title,
		Description: optional(body.Description),
		StartsAt:    h.Venue.Instant(date, startMin),
		EndsAt:      h.Venue.Instant(date, endMin),
		Location:    optional(body.Location),
		Published:   body.Published,
	}, nil
}

type adminEventJSON struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Location    *string `json:"location,omitempty"`
	Published   bool    `json:"published"`
}

func (h *AdminEventHandler) toJSON(ev model.Event) adminEventJSON {
	return adminEventJSON{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        h.Venue.LocalDate(ev.StartsAt),
		StartTime:   h.Venue.LocalClock(ev.StartsAt),
		EndTime:     h.Venue.LocalClock(ev.EndsAt),
		Location:    ev.Location,
		Published:   ev.Published,
	}
}

// List handles GET /v1/admin/events, returning drafts as well as
// published entries.
func (h *AdminEventHandler) List(c echo.Context) error {
	events, err := h.Store.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]adminEventJSON, 0, len(events))
	for _, ev := range events {
		items = append(items, h.toJSON(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/admin/events.
func (h *AdminEventHandler) Create(c echo.Context) error {
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ev, err := h.parseEventBody(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Store.Create(c.Request().Context(), &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, h.toJSON(ev))
}

// Update handles PUT /v1/admin/events/:id.
func (h *AdminEventHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ev, err := h.parseEventBody(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ev.ID = id
	if err := h.Store.Update(c.Request().Context(), &ev); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, h.toJSON(ev))
}

// Delete handles DELETE /v1/admin/events/:id.
func (h *AdminEventHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
