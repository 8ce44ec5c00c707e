package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Review is a guest's rating of a completed stay. One review per booking.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	HomestayID uuid.UUID `json:"homestay_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
