// Package availability decides whether a room can be added to a new booking.
//
// It is a pure function module: it reads only its arguments, performs no I/O
// and holds no state, so both the booking API and any form-facing code path
// share one implementation of the conflict rule instead of recomputing it
// inline. Safe to call concurrently.
package availability

import (
	"github.com/google/uuid"
)

// RoomStatus is the base operational status of a room, independent of dates.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// BookingStatus is the lifecycle status of an existing booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Blocks reports whether a booking with this status still occupies its rooms
// for its stay interval. Only cancelled bookings release their rooms.
func (s BookingStatus) Blocks() bool {
	return s != BookingCancelled
}

// Room is the minimal view of a candidate room the evaluator needs.
type Room struct {
	ID            uuid.UUID  `json:"id"`
	Status        RoomStatus `json:"status"`
	PricePerNight float64    `json:"price_per_night"`
}

// Booking is a read-only snapshot of an existing booking. A booking may span
// multiple rooms; it blocks each of them for its stay interval.
type Booking struct {
	ID      uuid.UUID     `json:"id"`
	RoomIDs []uuid.UUID   `json:"room_ids"`
	Stay    Stay          `json:"stay"`
	Status  BookingStatus `json:"status"`
}

func (b Booking) includesRoom(roomID uuid.UUID) bool {
	for _, id := range b.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}

// Verdict tags the outcome of an availability check. "No dates selected yet"
// is a distinct state rather than an overloaded true, so callers cannot
// mistake "not yet checked against dates" for "confirmed free".
type Verdict string

const (
	// VerdictRoomClosed means the room's base status rules it out before any
	// date logic runs.
	VerdictRoomClosed Verdict = "room_closed"
	// VerdictUnconstrained means no complete date range was supplied; the room
	// is shown as selectable but nothing has been checked.
	VerdictUnconstrained Verdict = "unconstrained"
	// VerdictAvailable means the requested range conflicts with no accepted
	// booking of this room.
	VerdictAvailable Verdict = "available"
	// VerdictConflicting means at least one accepted booking overlaps the
	// requested range.
	VerdictConflicting Verdict = "conflicting"
)

// Result is the outcome of evaluating one room against a requested stay.
type Result struct {
	Verdict Verdict `json:"verdict"`
	// Conflict is the first accepted booking found overlapping the requested
	// stay. Set only when Verdict is VerdictConflicting.
	Conflict *Booking `json:"conflict,omitempty"`
}

// Bookable reports whether the room may be offered for selection. An
// unconstrained result is bookable for display purposes; input validation
// upstream still rejects submission without a complete date range.
func (r Result) Bookable() bool {
	return r.Verdict == VerdictUnconstrained || r.Verdict == VerdictAvailable
}

// Evaluate checks a candidate room against a requested stay and the caller's
// snapshot of existing bookings.
//
// Order of checks:
//  1. A room whose base status is not available is never offered, regardless
//     of dates.
//  2. An incomplete date range short-circuits to unconstrained.
//  3. Otherwise scan the bookings: cancelled ones and ones not referencing
//     this room are ignored; any remaining booking whose stay overlaps the
//     requested half-open range is a conflict.
//
// The function is total: it never panics and returns a defined verdict for
// every input, including inverted ranges (which upstream validation rejects
// before a booking can be created).
func Evaluate(room Room, requested Stay, existing []Booking) Result {
	if room.Status != RoomAvailable {
		return Result{Verdict: VerdictRoomClosed}
	}

	if requested.IsZero() {
		return Result{Verdict: VerdictUnconstrained}
	}

	for i := range existing {
		b := existing[i]
		if !b.Status.Blocks() {
			continue
		}
		if !b.includesRoom(room.ID) {
			continue
		}
		if requested.Overlaps(b.Stay) {
			return Result{Verdict: VerdictConflicting, Conflict: &existing[i]}
		}
	}

	return Result{Verdict: VerdictAvailable}
}

// IsRoomAvailable is the boolean form of Evaluate, matching the contract the
// booking forms consume: false only when the room is closed or a conflict
// exists, true otherwise (including the unconstrained case).
func IsRoomAvailable(room Room, requested Stay, existing []Booking) bool {
	return Evaluate(room, requested, existing).Bookable()
}

// UnavailableRooms returns the ids of the candidate rooms that cannot take
// the requested stay, preserving candidate order. With no date range
// selected, nothing is reported unavailable on date grounds, but rooms whose
// base status rules them out are still included.
func UnavailableRooms(candidates []Room, requested Stay, existing []Booking) []uuid.UUID {
	var out []uuid.UUID
	for _, room := range candidates {
		if !Evaluate(room, requested, existing).Bookable() {
			out = append(out, room.ID)
		}
	}
	return out
}
