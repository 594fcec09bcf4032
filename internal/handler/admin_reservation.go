package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/repository"
)

// AdminStore extends the booking store with the operations staff need
// to manage the schedule. *repository.ReservationRepo satisfies it.
type AdminStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	ListForDay(ctx context.Context, room, date string, statuses []string) ([]model.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// AdminReservationHandler serves the staff dashboard's reservation
// management endpoints. All routes assume JWT authentication and the
// ADMIN role have been enforced by middleware.
type AdminReservationHandler struct {
	Store AdminStore
	Venue booking.Venue
}

// NewAdminReservationHandler constructs the handler; the store must be non-nil.
func NewAdminReservationHandler(store AdminStore, venue booking.Venue) *AdminReservationHandler {
	if store == nil {
		panic("nil store passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{Store: store, Venue: venue}
}

// List handles GET /v1/admin/reservations?date=YYYY-MM-DD. It returns
// every reservation on the venue-local date across all rooms.
func (h *AdminReservationHandler) List(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter must be YYYY-MM-DD"})
	}
	items, err := h.Store.ListByDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResponse, 0, len(items))
	for _, res := range items {
		out = append(out, reservationJSON(h.Venue, res))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Confirm handles POST /v1/admin/reservations/:id/confirm. Before the
// status flips to confirmed it re-runs the confirmed-overlap check
// against the other confirmed reservations of the same room and day:
// two confirmed bookings must never overlap, and the schedule may have
// changed since the reservation was accepted.
func (h *AdminReservationHandler) Confirm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()

	var updated model.Reservation
	err = h.Store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := h.Store.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if res.Status == string(booking.StatusCancelled) {
			return errConfirmCancelled
		}
		policy, ok := booking.PolicyFor(res.Room)
		if !ok {
			// Stored room names are canonical; a mismatch means the
			// row predates the current room table.
			return errUnknownRoom
		}
		others, err := h.Store.ListForDay(txCtx, res.Room, res.Date,
			[]string{string(booking.StatusConfirmed)})
		if err != nil {
			return err
		}
		neighbors := make([]booking.Existing, 0, len(others))
		for _, o := range others {
			if o.ID == res.ID {
				continue
			}
			neighbors = append(neighbors, booking.Existing{
				ID: o.ID, Status: booking.Status(o.Status), StartUTC: o.StartsAt, EndUTC: o.EndsAt,
			})
		}
		if err := booking.ConfirmCheck(res.StartsAt, res.EndsAt, policy.Buffer, neighbors); err != nil {
			return err
		}
		if err := h.Store.UpdateStatus(txCtx, id, string(booking.StatusConfirmed)); err != nil &&
			!errors.Is(err, repository.ErrNoChange) {
			return err
		}
		updated = res
		updated.Status = string(booking.StatusConfirmed)
		return nil
	})
	if err != nil {
		return h.writeAdminError(c, err)
	}
	return c.JSON(http.StatusOK, reservationJSON(h.Venue, updated))
}

// Cancel handles POST /v1/admin/reservations/:id/cancel. Cancelling is
// idempotent: cancelling an already-cancelled reservation succeeds.
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()

	var updated model.Reservation
	err = h.Store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := h.Store.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := h.Store.UpdateStatus(txCtx, id, string(booking.StatusCancelled)); err != nil &&
			!errors.Is(err, repository.ErrNoChange) {
			return err
		}
		updated = res
		updated.Status = string(booking.StatusCancelled)
		return nil
	})
	if err != nil {
		return h.writeAdminError(c, err)
	}
	return c.JSON(http.StatusOK, reservationJSON(h.Venue, updated))
}

// Delete handles DELETE /v1/admin/reservations/:id. Unlike cancel this
// removes the row; meant for spam and test entries.
func (h *AdminReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		return h.writeAdminError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

var (
	errConfirmCancelled = errors.New("cannot confirm a cancelled reservation")
	errUnknownRoom      = errors.New("reservation references an unknown room")
)

func (h *AdminReservationHandler) writeAdminError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, errConfirmCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": errConfirmCancelled.Error()})
	case errors.Is(err, errUnknownRoom):
		return c.JSON(http.StatusConflict, echo.Map{"error": errUnknownRoom.Error()})
	}
	var cerr *booking.ConflictError
	if errors.As(err, &cerr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "confirming would overlap another confirmed reservation",
			"code":  "confirmed_overlap",
		})
	}
	c.Logger().Errorf("admin reservations: store failure: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// parseID extracts the :id path parameter shared by the admin routes.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
