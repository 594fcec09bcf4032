package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the menu sync interval
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Venue settings (timezone, opening hours,
// past-booking policy) feed the booking resolver; the rest wires the
// HTTP server, database, staff auth and the POS menu sync.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign staff JWTs

	AccessTTLMin int // staff access token time-to-live in minutes
	BcryptCost   int // bcrypt cost for staff password hashing

	VenueTimezone string // IANA name of the venue timezone (default Asia/Almaty)
	OpenTime      string // local opening time, "HH:mm"
	CloseTime     string // local closing time, "HH:mm"
	// AllowPastBookings disables the past-datetime validation so staff
	// can record bookings retroactively. Off by default.
	AllowPastBookings bool

	POSAPIURL        string        // menu endpoint of the POS system; empty disables the sync job
	MenuSyncInterval time.Duration // how often the menu sync job runs
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),      // environment (dev/test/prod)
		Port:      must("APP_PORT"),     // port to bind the HTTP server
		DBUser:    must("DB_USER"),      // database user
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:    must("DB_HOST"),      // database host
		DBPort:    must("DB_PORT"),      // database port
		DBName:    must("DB_NAME"),      // database name
		JWTSecret: must("JWT_SECRET"),   // secret used for signing staff JWTs

		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for staff access tokens in minutes
		BcryptCost:   mustInt("BCRYPT_COST"),          // bcrypt cost factor

		VenueTimezone:     getenv("VENUE_TIMEZONE", "Asia/Almaty"),
		OpenTime:          getenv("VENUE_OPEN", "08:00"),
		CloseTime:         getenv("VENUE_CLOSE", "22:00"),
		AllowPastBookings: envBool("ALLOW_PAST_BOOKINGS", false),

		POSAPIURL:        os.Getenv("POS_API_URL"), // empty disables menu sync
		MenuSyncInterval: envDur("MENU_SYNC_INTERVAL", time.Hour),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
