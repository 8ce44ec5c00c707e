package homestays

import (
	"time"

	"github.com/google/uuid"
)

// HomestayResponse is the public view of a homestay, enriched with review
// aggregates resolved at the API boundary instead of ad hoc casts downstream.
type HomestayResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	Ward        string    `json:"ward"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `json:"status"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"`
	RoomCount   int64     `json:"room_count"`
	MinPrice    float64   `json:"min_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginatedHomestays is a page of homestay results
type PaginatedHomestays struct {
	Homestays []HomestayResponse `json:"homestays"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// OwnerStats aggregates a host's listings by status
type OwnerStats struct {
	TotalHomestays    int64 `json:"total_homestays"`
	ActiveHomestays   int64 `json:"active_homestays"`
	PendingHomestays  int64 `json:"pending_homestays"`
	InactiveHomestays int64 `json:"inactive_homestays"`
}

// HomestayStats aggregates bookings and revenue for one homestay
type HomestayStats struct {
	HomestayID        uuid.UUID `json:"homestay_id"`
	TotalBookings     int64     `json:"total_bookings"`
	ActiveBookings    int64     `json:"active_bookings"`
	CancelledBookings int64     `json:"cancelled_bookings"`
	TotalRevenue      float64   `json:"total_revenue"`
	AvgRating         float64   `json:"avg_rating"`
	ReviewCount       int64     `json:"review_count"`
}
