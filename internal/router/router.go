package router

import (
	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/handler"
	"github.com/steppecoffee/cafe-booking/internal/middleware"
)

// RegisterRoutes registers routes that need neither authentication nor
// any store access. Currently it exposes only a health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated site endpoints: room
// capacities for the booking form, the events calendar and the menu.
// The optional cache middleware (Redis response cache) is applied to
// these routes only; booking submissions are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/rooms", p.GetRooms)
	g.GET("/events", p.GetEvents)
	g.GET("/menu", p.GetMenu)
}

// RegisterBooking registers the public booking submission endpoint.
// The rate limiter guards it against form spam; it is the only public
// write path in the service.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, rate echo.MiddlewareFunc) {
	route := e.Group("/v1/bookings")
	if rate != nil {
		route.Use(rate)
	}
	route.POST("", b.Create)
}

// RegisterStaff registers staff login plus the JWT-protected admin
// surface: reservation management, trusted booking creation, the events
// calendar CRUD and the manual menu sync trigger. Every admin route
// requires a valid access token with the ADMIN role.
func RegisterStaff(e *echo.Echo, a *handler.AuthHandler,
	r *handler.AdminReservationHandler, b *handler.BookingHandler,
	ev *handler.AdminEventHandler, m *handler.AdminMenuHandler, jwtSecret string) {

	e.POST("/v1/staff/login", a.Login)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.GET("/reservations", r.List)
	admin.POST("/reservations", b.CreateTrusted)
	admin.POST("/reservations/:id/confirm", r.Confirm)
	admin.POST("/reservations/:id/cancel", r.Cancel)
	admin.DELETE("/reservations/:id", r.Delete)

	admin.GET("/events", ev.List)
	admin.POST("/events", ev.Create)
	admin.PUT("/events/:id", ev.Update)
	admin.DELETE("/events/:id", ev.Delete)

	admin.POST("/menu/sync", m.Sync)
}
