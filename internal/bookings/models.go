package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a stay reservation covering one or more rooms of a homestay.
// Dates are a half-open interval: the check-out day is not occupied.
type Booking struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingCode  string    `json:"booking_code" gorm:"uniqueIndex;not null"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	HomestayID   uuid.UUID `json:"homestay_id" gorm:"type:uuid;not null;index"`
	CheckInDate  time.Time `json:"check_in_date" gorm:"not null"`
	CheckOutDate time.Time `json:"check_out_date" gorm:"not null"`
	GuestCount   int       `json:"guest_count" gorm:"not null;default:1"`
	GuestName    string    `json:"guest_name"`
	GuestPhone   string    `json:"guest_phone"`
	GuestEmail   string    `json:"guest_email"`
	Nights       int       `json:"nights" gorm:"not null"`
	TotalAmount  float64   `json:"total_amount" gorm:"not null"`
	PaidAmount   float64   `json:"paid_amount" gorm:"not null;default:0"`
	Status       string    `json:"status" gorm:"default:'pending';check:status IN ('pending','confirmed','completed','cancelled')"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Rooms []BookingRoom `json:"rooms,omitempty" gorm:"foreignKey:BookingID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingRoom links a booking to one of its rooms, snapshotting the name and
// nightly price at booking time so later room edits do not rewrite history.
type BookingRoom struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingID     uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	RoomID        uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`
	RoomName      string    `json:"room_name"`
	PricePerNight float64   `json:"price_per_night" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

func (BookingRoom) TableName() string {
	return "booking_rooms"
}
