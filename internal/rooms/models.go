package rooms

import (
	"time"

	"github.com/google/uuid"
)

// Room is a bookable unit inside a homestay.
type Room struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HomestayID    uuid.UUID `json:"homestay_id" gorm:"type:uuid;not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Type          string    `json:"type" gorm:"default:'standard'"`
	Capacity      int       `json:"capacity" gorm:"not null;default:2"`
	PricePerNight float64   `json:"price_per_night" gorm:"not null"`
	Status        string    `json:"status" gorm:"default:'available';check:status IN ('available','occupied','maintenance')"`
	Images        string    `json:"images" gorm:"type:text"`
	Amenities     string    `json:"amenities" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// RoomAvailability is a host-managed calendar entry for one room and one
// date: a blocked day keeps the room out of bookings, an available day may
// carry a nightly price override for display.
type RoomAvailability struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RoomID    uuid.UUID `json:"room_id" gorm:"type:uuid;not null;uniqueIndex:idx_room_date"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_room_date"`
	Status    string    `json:"status" gorm:"default:'available';check:status IN ('available','blocked')"`
	Price     *float64  `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RoomAvailability) TableName() string {
	return "room_availabilities"
}
