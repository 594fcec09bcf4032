package booking

import "fmt"

// ValidationKind names the category of a client-correctable booking error.
type ValidationKind string

const (
	KindMissingField     ValidationKind = "missing_field"
	KindCapacity         ValidationKind = "capacity"
	KindInvertedInterval ValidationKind = "inverted_interval"
	KindOutsideHours     ValidationKind = "outside_hours"
	KindPastDateTime     ValidationKind = "past_datetime"
)

// ValidationError reports a request the client can fix and resubmit.
// Handlers translate it into an HTTP 400 response.
type ValidationError struct {
	Kind    ValidationKind
	Field   string // the offending request field, when one can be named
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func missing(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Message: "is required"}
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Message: msg}
}

// ConflictError reports that the proposed interval intersects the
// buffered interval of a reservation already confirmed by staff. The
// booking is rejected outright; handlers translate this into HTTP 409.
type ConflictError struct {
	ReservationID uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot overlaps confirmed reservation %d", e.ReservationID)
}
