// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingRequestedEvent is published after a reservation has been
// persisted, whatever status the resolver assigned. It carries enough
// information for the notification dispatcher to compose a message
// without querying the database. Times are venue-local strings because
// the message is meant for humans.
type BookingRequestedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Room          string `json:"room"`
	Date          string `json:"date"`
	StartLocal    string `json:"start_local"`
	EndLocal      string `json:"end_local"`
	OrganizerName string `json:"organizer_name"`
	Phone         string `json:"phone"`
	PartySize     int    `json:"party_size"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
