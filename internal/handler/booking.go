package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/queue"
)

// BookingStore is the slice of the reservation repository the booking
// endpoint needs. It is an interface so tests can substitute an
// in-memory store; *repository.ReservationRepo satisfies it.
type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListForDay(ctx context.Context, room, date string, statuses []string) ([]model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation) error
}

// BookingHandler serves the public booking submission endpoint and the
// trusted admin re-booking variant. Both run the exact same resolver;
// the only difference is whether status_to_set in the body is honored.
type BookingHandler struct {
	Store    BookingStore
	Resolver *booking.Resolver
	Clock    clock.Clock
	// Notify publishes the created booking to the notification queue.
	// It is called in a goroutine after the response status is decided;
	// failures are logged and never affect the booking.
	Notify func(ctx context.Context, ev queue.BookingRequestedEvent) error
}

// NewBookingHandler constructs a BookingHandler. Store, resolver and
// clock must be non-nil; Notify may be nil to disable notifications.
func NewBookingHandler(store BookingStore, resolver *booking.Resolver, clk clock.Clock,
	notify func(ctx context.Context, ev queue.BookingRequestedEvent) error) *BookingHandler {
	if store == nil || resolver == nil || clk == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Store: store, Resolver: resolver, Clock: clk, Notify: notify}
}

// bookingBody is the wire form of a booking submission.
type bookingBody struct {
	OrganizerName    string `json:"organizer_name"`
	BookingDate      string `json:"booking_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	NumPeople        int    `json:"num_people"`
	SelectedRoom     string `json:"selected_room"`
	PhoneNumber      string `json:"phone_number"`
	Comments         string `json:"comments"`
	EventName        string `json:"event_name"`
	EventDescription string `json:"event_description"`
	OrganizerContact string `json:"organizer_contact"`
	StatusToSet      string `json:"status_to_set"`
}

// reservationResponse is the JSON shape returned for a reservation,
// with the interval converted back to venue-local time.
type reservationResponse struct {
	ID               uint64  `json:"id"`
	Room             string  `json:"room"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	NumPeople        int     `json:"num_people"`
	Status           string  `json:"status"`
	OrganizerName    string  `json:"organizer_name"`
	PhoneNumber      string  `json:"phone_number"`
	Comments         *string `json:"comments,omitempty"`
	EventName        *string `json:"event_name,omitempty"`
	EventDescription *string `json:"event_description,omitempty"`
	OrganizerContact *string `json:"organizer_contact,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// reservationJSON renders a stored reservation for API responses,
// converting the UTC interval back to venue-local time.
func reservationJSON(v booking.Venue, res model.Reservation) reservationResponse {
	return reservationResponse{
		ID:               res.ID,
		Room:             res.Room,
		Date:             res.Date,
		StartTime:        v.LocalClock(res.StartsAt),
		EndTime:          v.LocalClock(res.EndsAt),
		NumPeople:        res.PartySize,
		Status:           res.Status,
		OrganizerName:    res.OrganizerName,
		PhoneNumber:      res.Phone,
		Comments:         res.Comments,
		EventName:        res.EventName,
		EventDescription: res.EventDesc,
		OrganizerContact: res.Contact,
		CreatedAt:        res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/bookings. The status_to_set field is ignored:
// guests cannot choose their own status.
func (h *BookingHandler) Create(c echo.Context) error {
	return h.create(c, false)
}

// CreateTrusted handles POST /v1/admin/reservations. It honors
// status_to_set so staff can re-book a slot directly into a chosen
// status. The confirmed-overlap rejection still applies.
func (h *BookingHandler) CreateTrusted(c echo.Context) error {
	return h.create(c, true)
}

func (h *BookingHandler) create(c echo.Context, trusted bool) error {
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	req := booking.Request{
		OrganizerName: body.OrganizerName,
		Date:          body.BookingDate,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		PartySize:     body.NumPeople,
		Room:          body.SelectedRoom,
		Phone:         body.PhoneNumber,
	}
	if trusted && body.StatusToSet != "" {
		override := booking.Status(body.StatusToSet)
		if !booking.ValidStatus(override) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status_to_set"})
		}
		req.StatusOverride = override
	}

	now := h.Clock.Now()
	ctx := c.Request().Context()

	var created model.Reservation
	err := h.Store.WithTx(ctx, func(txCtx context.Context) error {
		// Canonicalize the room name so the day query matches stored
		// rows; a bad name falls through to the resolver, which owns
		// the error.
		var existing []model.Reservation
		if policy, ok := booking.PolicyFor(req.Room); ok {
			var err error
			existing, err = h.Store.ListForDay(txCtx, string(policy.Room), req.Date,
				[]string{string(booking.StatusPending), string(booking.StatusConfirmed)})
			if err != nil {
				return err
			}
		}

		decision, err := h.Resolver.Resolve(req, toExisting(existing), now)
		if err != nil {
			return err
		}

		created = model.Reservation{
			Room:          string(decision.Policy.Room),
			Date:          req.Date,
			StartsAt:      decision.StartUTC,
			EndsAt:        decision.EndUTC,
			PartySize:     req.PartySize,
			Status:        string(decision.Status),
			OrganizerName: req.OrganizerName,
			Phone:         req.Phone,
			Contact:       optional(body.OrganizerContact),
			Comments:      optional(body.Comments),
			EventName:     optional(body.EventName),
			EventDesc:     optional(body.EventDescription),
		}
		return h.Store.Create(txCtx, &created)
	})
	if err != nil {
		return h.writeBookingError(c, err)
	}

	h.notifyAsync(created)
	return c.JSON(http.StatusCreated, reservationJSON(h.Resolver.Venue, created))
}

// writeBookingError maps resolver and store errors onto the booking
// endpoint's response contract: 400 for validation, 409 for confirmed
// conflicts, 500 for everything else.
func (h *BookingHandler) writeBookingError(c echo.Context, err error) error {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": verr.Error(),
			"code":  string(verr.Kind),
		})
	}
	var cerr *booking.ConflictError
	if errors.As(err, &cerr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "the requested slot conflicts with a confirmed reservation",
			"code":  "confirmed_overlap",
		})
	}
	c.Logger().Errorf("booking: store failure: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// notifyAsync publishes the booking event without blocking the
// response. Uses a fresh context because the request context is done
// once the response is written.
func (h *BookingHandler) notifyAsync(res model.Reservation) {
	if h.Notify == nil {
		return
	}
	v := h.Resolver.Venue
	ev := queue.BookingRequestedEvent{
		ReservationID: res.ID,
		Room:          res.Room,
		Date:          res.Date,
		StartLocal:    v.LocalClock(res.StartsAt),
		EndLocal:      v.LocalClock(res.EndsAt),
		OrganizerName: res.OrganizerName,
		Phone:         res.Phone,
		PartySize:     res.PartySize,
		Status:        res.Status,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.Notify(ctx, ev); err != nil {
			log.Printf("booking: notification publish failed for reservation %d: %v", res.ID, err)
		}
	}()
}

func toExisting(rs []model.Reservation) []booking.Existing {
	out := make([]booking.Existing, 0, len(rs))
	for _, r := range rs {
		out = append(out, booking.Existing{
			ID:       r.ID,
			Status:   booking.Status(r.Status),
			StartUTC: r.StartsAt,
			EndUTC:   r.EndsAt,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
