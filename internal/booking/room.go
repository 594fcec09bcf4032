package booking

import "time"

// Room identifies one of the café's bookable spaces.
type Room string

const (
	RoomMainHall      Room = "main_hall"
	RoomSecondHall    Room = "second_hall"
	RoomSummerTerrace Room = "summer_terrace"
)

// RoomPolicy carries the per-room constraints applied during booking
// resolution: the allowed party size range and the minimum idle gap
// required around existing reservations before a new one may be placed.
type RoomPolicy struct {
	Room      Room
	Label     string
	MinPeople int
	MaxPeople int
	// Buffer widens every existing reservation's interval on both sides
	// before overlap testing. Zero means back-to-back bookings are fine.
	Buffer time.Duration
}

// policies is the authoritative room table. The second hall is an inner
// room that needs an hour of turnaround between events.
var policies = []RoomPolicy{
	{Room: RoomMainHall, Label: "Main hall", MinPeople: 2, MaxPeople: 40},
	{Room: RoomSecondHall, Label: "Second hall", MinPeople: 2, MaxPeople: 15, Buffer: time.Hour},
	{Room: RoomSummerTerrace, Label: "Summer terrace", MinPeople: 2, MaxPeople: 25},
}

// PolicyFor resolves a room name submitted by a client into its policy.
// The historical short form "terrace" is accepted for the summer terrace.
func PolicyFor(name string) (RoomPolicy, bool) {
	if name == "terrace" {
		name = string(RoomSummerTerrace)
	}
	for _, p := range policies {
		if string(p.Room) == name {
			return p, true
		}
	}
	return RoomPolicy{}, false
}

// Rooms returns all room policies in display order.
func Rooms() []RoomPolicy {
	out := make([]RoomPolicy, len(policies))
	copy(out, policies)
	return out
}
