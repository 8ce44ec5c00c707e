package rooms

import (
	"time"

	"github.com/google/uuid"
)

// RoomResponse is the public room view. IsAvailable is only set when the
// listing was asked for a concrete date range.
type RoomResponse struct {
	ID            uuid.UUID `json:"id"`
	HomestayID    uuid.UUID `json:"homestay_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Capacity      int       `json:"capacity"`
	PricePerNight float64   `json:"price_per_night"`
	Status        string    `json:"status"`
	Images        string    `json:"images"`
	Amenities     string    `json:"amenities"`
	IsAvailable   *bool     `json:"is_available,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailabilityResponse reports the verdict for one room over one stay.
type AvailabilityResponse struct {
	RoomID               uuid.UUID  `json:"room_id"`
	Verdict              string     `json:"verdict"`
	Available            bool       `json:"available"`
	ConflictingBookingID *uuid.UUID `json:"conflicting_booking_id,omitempty"`
}

// AvailabilityDayResponse is one calendar entry of a room.
type AvailabilityDayResponse struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"room_id"`
	Date   string    `json:"date"` // 2006-01-02
	Status string    `json:"status"`
	Price  *float64  `json:"price,omitempty"`
}

func toDayResponse(entry *RoomAvailability) AvailabilityDayResponse {
	return AvailabilityDayResponse{
		ID:     entry.ID,
		RoomID: entry.RoomID,
		Date:   entry.Date.Format("2006-01-02"),
		Status: entry.Status,
		Price:  entry.Price,
	}
}

func toResponse(room *Room) RoomResponse {
	return RoomResponse{
		ID:            room.ID,
		HomestayID:    room.HomestayID,
		Name:          room.Name,
		Description:   room.Description,
		Type:          room.Type,
		Capacity:      room.Capacity,
		PricePerNight: room.PricePerNight,
		Status:        room.Status,
		Images:        room.Images,
		Amenities:     room.Amenities,
		CreatedAt:     room.CreatedAt,
		UpdatedAt:     room.UpdatedAt,
	}
}
