// Package booking implements the conflict-resolution core for table and
// room reservations. Every entry point that accepts a booking — the
// public submission endpoint and the admin re-booking flow — runs the
// same Resolve function, so a request is judged identically regardless
// of where it came from.
package booking

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a reservation. The resolver only
// ever creates pending or queued reservations; confirmed and cancelled
// are set later by staff.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueued    Status = "queued"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusQueued, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Request is a proposed booking as submitted by a client. Times are
// venue-local wall-clock values; the resolver normalizes them to UTC.
type Request struct {
	OrganizerName string
	Date          string // YYYY-MM-DD, venue-local calendar date
	StartTime     string // HH:mm, venue-local
	EndTime       string // HH:mm, venue-local
	PartySize     int
	Room          string
	Phone         string
	// StatusOverride is honored only for trusted callers (admin
	// re-booking). It bypasses the queue/accept classification but
	// never the confirmed-overlap rejection.
	StatusOverride Status
}

// Existing is the slice of an already-stored reservation the resolver
// needs for conflict testing.
type Existing struct {
	ID       uint64
	Status   Status
	StartUTC time.Time
	EndUTC   time.Time
}

// Decision is the outcome of a successful resolution: the status the
// new reservation should be created with and its canonical interval.
type Decision struct {
	Status   Status
	Policy   RoomPolicy
	StartUTC time.Time
	EndUTC   time.Time
}

// Resolver holds the policy knobs the decision depends on. It is pure
// apart from reading the injected clock; persistence and notification
// stay with the caller.
type Resolver struct {
	Venue Venue
	// AllowPast disables the past-datetime check so staff can enter
	// bookings retroactively.
	AllowPast bool
}

// Resolve validates req and classifies it against the existing
// reservations for the same room and date. Checks run in a fixed order
// and the first failure wins. It returns a *ValidationError for
// client-correctable input, a *ConflictError when the slot intersects a
// confirmed reservation, and a Decision otherwise.
//
// Only existing reservations in status pending or confirmed take part
// in conflict testing: a queued booking has not secured its slot.
func (r *Resolver) Resolve(req Request, existing []Existing, now time.Time) (Decision, error) {
	if strings.TrimSpace(req.OrganizerName) == "" {
		return Decision{}, missing("organizer_name")
	}
	if req.Date == "" {
		return Decision{}, missing("booking_date")
	}
	if req.StartTime == "" {
		return Decision{}, missing("start_time")
	}
	if req.EndTime == "" {
		return Decision{}, missing("end_time")
	}
	if req.PartySize == 0 {
		return Decision{}, missing("num_people")
	}
	if req.Room == "" {
		return Decision{}, missing("selected_room")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return Decision{}, missing("phone_number")
	}

	policy, ok := PolicyFor(req.Room)
	if !ok {
		return Decision{}, invalid("selected_room", "unknown room")
	}
	if req.PartySize < policy.MinPeople || req.PartySize > policy.MaxPeople {
		return Decision{}, &ValidationError{
			Kind:    KindCapacity,
			Field:   "num_people",
			Message: "party size outside room capacity",
		}
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return Decision{}, invalid("booking_date", err.Error())
	}
	startMin, err := ParseClock(req.StartTime)
	if err != nil {
		return Decision{}, invalid("start_time", err.Error())
	}
	endMin, err := ParseClock(req.EndTime)
	if err != nil {
		return Decision{}, invalid("end_time", err.Error())
	}

	if startMin >= endMin {
		return Decision{}, &ValidationError{
			Kind:    KindInvertedInterval,
			Message: "end time must be after start time",
		}
	}
	if !r.Venue.WithinHours(startMin, endMin) {
		return Decision{}, &ValidationError{
			Kind:    KindOutsideHours,
			Message: "booking must fall within opening hours",
		}
	}

	startUTC := r.Venue.Instant(date, startMin)
	endUTC := r.Venue.Instant(date, endMin)

	if !r.AllowPast && startUTC.Before(now) {
		return Decision{}, &ValidationError{
			Kind:    KindPastDateTime,
			Message: "booking starts in the past",
		}
	}

	decided, err := classify(startUTC, endUTC, policy.Buffer, existing)
	if err != nil {
		return Decision{}, err
	}
	if req.StatusOverride != "" {
		decided = req.StatusOverride
	}

	return Decision{
		Status:   decided,
		Policy:   policy,
		StartUTC: startUTC,
		EndUTC:   endUTC,
	}, nil
}

// classify runs the single canonical overlap test against every
// pending or confirmed reservation, each widened by the room buffer on
// both sides. A confirmed overlap rejects the request; a pending-only
// overlap queues it; no overlap accepts it as pending.
func classify(start, end time.Time, buffer time.Duration, existing []Existing) (Status, error) {
	pendingOverlap := false
	for _, e := range existing {
		if e.Status != StatusPending && e.Status != StatusConfirmed {
			continue
		}
		bufStart := e.StartUTC.Add(-buffer)
		bufEnd := e.EndUTC.Add(buffer)
		// Open-interval overlap: touching at a boundary is allowed.
		if start.Before(bufEnd) && end.After(bufStart) {
			if e.Status == StatusConfirmed {
				return "", &ConflictError{ReservationID: e.ID}
			}
			pendingOverlap = true
		}
	}
	if pendingOverlap {
		return StatusQueued, nil
	}
	return StatusPending, nil
}

// ConfirmCheck re-runs the confirmed-overlap rule when staff promote a
// reservation to confirmed: two confirmed reservations must never hold
// overlapping buffered intervals in the same room on the same date. The
// others slice should exclude the reservation being promoted.
func ConfirmCheck(start, end time.Time, buffer time.Duration, others []Existing) error {
	for _, e := range others {
		if e.Status != StatusConfirmed {
			continue
		}
		if start.Before(e.EndUTC.Add(buffer)) && end.After(e.StartUTC.Add(-buffer)) {
			return &ConflictError{ReservationID: e.ID}
		}
	}
	return nil
}
