package bookings

// create booking request. Dates are calendar dates (2006-01-02); the
// check-out day is departure day and is not occupied.
type CreateBookingRequest struct {
	HomestayID string   `json:"homestay_id" validate:"required,uuid"`
	RoomIDs    []string `json:"room_ids" validate:"required,min=1,dive,uuid"`
	CheckIn    string   `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string   `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestCount int      `json:"guest_count" validate:"required,min=1"`
	GuestName  string   `json:"guest_name" validate:"required,min=2,max=200"`
	GuestPhone string   `json:"guest_phone" validate:"required,min=8,max=20"`
	GuestEmail string   `json:"guest_email" validate:"omitempty,email"`
	PaidAmount float64  `json:"paid_amount" validate:"omitempty,gte=0"`
	Notes      string   `json:"notes"`
}

// update status request
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// search filters for booking listings
type SearchFilters struct {
	Status      string `form:"status"`
	HomestayID  string `form:"homestay_id"`
	BookingCode string `form:"booking_code"`
	FromDate    string `form:"from_date"` // 2006-01-02, on check-in date
	ToDate      string `form:"to_date"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

func (f *SearchFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}
