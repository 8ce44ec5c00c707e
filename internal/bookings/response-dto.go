package bookings

import (
	"time"

	"github.com/google/uuid"
)

type BookingRoomResponse struct {
	RoomID        uuid.UUID `json:"room_id"`
	RoomName      string    `json:"room_name"`
	PricePerNight float64   `json:"price_per_night"`
}

type BookingResponse struct {
	ID           uuid.UUID             `json:"id"`
	BookingCode  string                `json:"booking_code"`
	UserID       uuid.UUID             `json:"user_id"`
	HomestayID   uuid.UUID             `json:"homestay_id"`
	HomestayName string                `json:"homestay_name,omitempty"`
	CheckInDate  time.Time             `json:"check_in_date"`
	CheckOutDate time.Time             `json:"check_out_date"`
	GuestCount   int                   `json:"guest_count"`
	GuestName    string                `json:"guest_name"`
	GuestPhone   string                `json:"guest_phone"`
	GuestEmail   string                `json:"guest_email"`
	Nights       int                   `json:"nights"`
	TotalAmount  float64               `json:"total_amount"`
	PaidAmount   float64               `json:"paid_amount"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	Rooms        []BookingRoomResponse `json:"rooms"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type PaginatedBookings struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ConflictDetail names the rooms that could not take the requested stay.
type ConflictDetail struct {
	UnavailableRoomIDs []uuid.UUID `json:"unavailable_room_ids"`
}

func toResponse(b *Booking, homestayName string) BookingResponse {
	roomsResp := make([]BookingRoomResponse, 0, len(b.Rooms))
	for _, br := range b.Rooms {
		roomsResp = append(roomsResp, BookingRoomResponse{
			RoomID:        br.RoomID,
			RoomName:      br.RoomName,
			PricePerNight: br.PricePerNight,
		})
	}

	return BookingResponse{
		ID:           b.ID,
		BookingCode:  b.BookingCode,
		UserID:       b.UserID,
		HomestayID:   b.HomestayID,
		HomestayName: homestayName,
		CheckInDate:  b.CheckInDate,
		CheckOutDate: b.CheckOutDate,
		GuestCount:   b.GuestCount,
		GuestName:    b.GuestName,
		GuestPhone:   b.GuestPhone,
		GuestEmail:   b.GuestEmail,
		Nights:       b.Nights,
		TotalAmount:  b.TotalAmount,
		PaidAmount:   b.PaidAmount,
		Status:       b.Status,
		Notes:        b.Notes,
		Rooms:        roomsResp,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
