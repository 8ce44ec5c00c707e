package reviews

import (
	"time"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	BookingID    uuid.UUID `json:"booking_id"`
	HomestayID   uuid.UUID `json:"homestay_id"`
	UserID       uuid.UUID `json:"user_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PaginatedReviews struct {
	Reviews   []ReviewResponse `json:"reviews"`
	Total     int64            `json:"total"`
	AvgRating float64          `json:"avg_rating"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
}
