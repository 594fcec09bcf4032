package booking

import (
	"fmt"
	"time"
)

// Venue describes the café's fixed timezone and operating hours. All
// user-facing times ("HH:mm" on a calendar date) are interpreted in
// Location; everything stored or compared is converted to UTC through
// this one type so no other normalization path exists.
type Venue struct {
	Location *time.Location
	// OpenMin and CloseMin are minutes since local midnight. Both
	// bounds are inclusive for validation: a booking may start at
	// opening and must end no later than closing.
	OpenMin  int
	CloseMin int
}

// NewVenue builds a Venue from an IANA timezone name and local
// "HH:mm" opening and closing times.
func NewVenue(tz, open, close string) (Venue, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Venue{}, fmt.Errorf("load venue timezone %q: %w", tz, err)
	}
	openMin, err := ParseClock(open)
	if err != nil {
		return Venue{}, err
	}
	closeMin, err := ParseClock(close)
	if err != nil {
		return Venue{}, err
	}
	if openMin >= closeMin {
		return Venue{}, fmt.Errorf("opening time %s is not before closing time %s", open, close)
	}
	return Venue{Location: loc, OpenMin: openMin, CloseMin: closeMin}, nil
}

// DefaultVenue returns the production venue: Asia/Almaty, 08:00–22:00.
func DefaultVenue() Venue {
	loc, err := time.LoadLocation("Asia/Almaty")
	if err != nil {
		// The venue timezone is fixed; a missing tzdata entry is a
		// deployment problem, not a runtime condition.
		panic("booking: load venue timezone: " + err.Error())
	}
	return Venue{Location: loc, OpenMin: 8 * 60, CloseMin: 22 * 60}
}

// ParseClock parses a local "HH:mm" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses an ISO calendar date ("2006-01-02"). The result has
// no timezone attached; it only carries year, month and day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

// Instant combines a calendar date with minutes-since-midnight in the
// venue timezone and returns the absolute instant in UTC. This is the
// canonical stored representation of booking times.
func (v Venue) Instant(date time.Time, clockMin int) time.Time {
	local := time.Date(date.Year(), date.Month(), date.Day(),
		clockMin/60, clockMin%60, 0, 0, v.Location)
	return local.UTC()
}

// LocalClock converts a stored UTC instant back to the venue-local
// "HH:mm" form shown to users.
func (v Venue) LocalClock(t time.Time) string {
	return t.In(v.Location).Format("15:04")
}

// LocalDate converts a stored UTC instant back to the venue-local
// calendar date string.
func (v Venue) LocalDate(t time.Time) string {
	return t.In(v.Location).Format("2006-01-02")
}

// WithinHours reports whether a local interval given in minutes since
// midnight fits the operating hours. Bounds are inclusive.
func (v Venue) WithinHours(startMin, endMin int) bool {
	return startMin >= v.OpenMin && endMin <= v.CloseMin
}
