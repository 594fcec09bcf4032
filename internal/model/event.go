package model

import "time"

// Event is an entry on the café's public calendar: concerts, tastings,
// board-game nights. Events are managed by staff and shown to guests;
// they are independent of room reservations.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – event name shown on the site.
//  Description – optional longer text.
//  StartsAt    – event start, UTC.
//  EndsAt      – event end, UTC.
//  Location    – free-form venue hint ("summer terrace", "main hall").
//  Published   – whether guests can see the event.
//  CreatedAt   – row creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
	ID          uint64    // events.id
	Title       string    // events.title
	Description *string   // events.description (nullable)
	StartsAt    time.Time // events.starts_at (UTC)
	EndsAt      time.Time // events.ends_at (UTC)
	Location    *string   // events.location (nullable)
	Published   bool      // events.published
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}
