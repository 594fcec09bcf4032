package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/booking"
	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/config"
	"github.com/steppecoffee/cafe-booking/internal/database"
	"github.com/steppecoffee/cafe-booking/internal/handler"
	"github.com/steppecoffee/cafe-booking/internal/middleware"
	"github.com/steppecoffee/cafe-booking/internal/possync"
	"github.com/steppecoffee/cafe-booking/internal/queue"
	"github.com/steppecoffee/cafe-booking/internal/repository"
	"github.com/steppecoffee/cafe-booking/internal/router"
	notifier "github.com/steppecoffee/cafe-booking/internal/service"
)

func main() {
	// .env is optional; in containers configuration comes from real
	// environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	venue, err := booking.NewVenue(cfg.VenueTimezone, cfg.OpenTime, cfg.CloseTime)
	if err != nil {
		log.Fatalf("venue config: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the public response cache. A nil
	// client disables both; bookings still work without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	reservations := repository.NewReservationRepo(db)
	events := repository.NewEventRepo(db)
	menu := repository.NewMenuRepo(db)
	staff := repository.NewStaffRepo(db)

	clk := clock.NewSystem()
	resolver := &booking.Resolver{Venue: venue, AllowPast: cfg.AllowPastBookings}

	bookings := handler.NewBookingHandler(reservations, resolver, clk, notifier.PublishBookingRequested)
	adminRes := handler.NewAdminReservationHandler(reservations, venue)
	adminEvents := handler.NewAdminEventHandler(events, venue)
	public := handler.NewPublicHandler(events, menu, venue, clk)
	auth := handler.NewAuthHandler(staff, cfg.JWTSecret, cfg.AccessTTLMin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The menu sync job is optional: without a POS endpoint the menu
	// table is simply left as-is.
	var syncer *possync.Syncer
	if cfg.POSAPIURL != "" {
		syncer = possync.NewSyncer(cfg.POSAPIURL, menu, clk)
		go syncer.Start(ctx, cfg.MenuSyncInterval)
	}
	adminMenu := handler.NewAdminMenuHandler(menuSyncer(syncer))

	// Consumer for booking notifications. It reconnects on its own; a
	// returned error means RabbitMQ is not configured at all.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer disabled: %v", err)
		}
	}()

	e := echo.New()

	var rateMW, cacheMW echo.MiddlewareFunc
	if rdb != nil {
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterPublic(e, public, cacheMW)
	router.RegisterBooking(e, bookings, rateMW)
	router.RegisterStaff(e, auth, adminRes, bookings, adminEvents, adminMenu, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, venue=%s)", addr, cfg.Env, cfg.VenueTimezone)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// menuSyncer avoids handing a typed-nil *possync.Syncer to the handler,
// which would defeat its nil check.
func menuSyncer(s *possync.Syncer) handler.MenuSyncer {
	if s == nil {
		return nil
	}
	return s
}
