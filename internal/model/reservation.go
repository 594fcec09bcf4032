package model

import "time"

// Reservation records a booking of one of the café's rooms for a
// time interval on a single day. Times are stored in UTC; the date
// column keeps the venue-local calendar day so day views and conflict
// queries do not depend on timezone arithmetic.
//
// Fields:
//  ID            – primary key identifier.
//  Room          – bookable space (main_hall, second_hall, summer_terrace).
//  Date          – venue-local calendar date, "YYYY-MM-DD".
//  StartsAt      – interval start, UTC.
//  EndsAt        – interval end, UTC (always after StartsAt).
//  PartySize     – number of guests; within the room's capacity range.
//  Status        – pending, queued, confirmed or cancelled.
//  OrganizerName – who is booking.
//  Phone         – contact phone, required.
//  Contact       – optional extra contact (email, telegram handle).
//  Comments      – optional free-form notes from the organizer.
//  EventName     – optional public name when the booking is an event.
//  EventDesc     – optional public description of the event.
//  CreatedAt     – row creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64    // reservations.id
	Room          string    // reservations.room
	Date          string    // reservations.booking_date
	StartsAt      time.Time // reservations.starts_at (UTC)
	EndsAt        time.Time // reservations.ends_at (UTC)
	PartySize     int       // reservations.party_size
	Status        string    // reservations.status
	OrganizerName string    // reservations.organizer_name
	Phone         string    // reservations.phone
	Contact       *string   // reservations.contact (nullable)
	Comments      *string   // reservations.comments (nullable)
	EventName     *string   // reservations.event_name (nullable)
	EventDesc     *string   // reservations.event_description (nullable)
	CreatedAt     time.Time // reservations.created_at
	UpdatedAt     time.Time // reservations.updated_at
}
