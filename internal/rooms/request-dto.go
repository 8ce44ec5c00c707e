package rooms

// create room request
type CreateRoomRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Description   string  `json:"description"`
	Type          string  `json:"type" validate:"omitempty,oneof=standard deluxe suite family"`
	Capacity      int     `json:"capacity" validate:"required,min=1,max=20"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Images        string  `json:"images"`
	Amenities     string  `json:"amenities"`
}

// update room request; nil fields are left unchanged
type UpdateRoomRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description"`
	Type          *string  `json:"type" validate:"omitempty,oneof=standard deluxe suite family"`
	Capacity      *int     `json:"capacity" validate:"omitempty,min=1,max=20"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gt=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	Images        *string  `json:"images"`
	Amenities     *string  `json:"amenities"`
}

// set availability for a date range; every date in [start_date, end_date)
// gets the same status and optional price override
type SetAvailabilityRequest struct {
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status    string   `json:"status" validate:"required,oneof=available blocked"`
	Price     *float64 `json:"price" validate:"omitempty,gt=0"`
}

// update a single calendar entry; nil fields are left unchanged
type UpdateAvailabilityRequest struct {
	Status *string  `json:"status" validate:"omitempty,oneof=available blocked"`
	Price  *float64 `json:"price" validate:"omitempty,gt=0"`
}

// calendar listing window
type CalendarFilters struct {
	From string `form:"from"` // 2006-01-02
	To   string `form:"to"`   // 2006-01-02
}

// list filters for rooms within a homestay
type ListFilters struct {
	Status   string  `form:"status"`
	Type     string  `form:"type"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`

	// With both dates set each room is annotated with whether it is free
	// for the whole range.
	CheckIn    string `form:"check_in"`  // 2006-01-02
	CheckOut   string `form:"check_out"` // 2006-01-02
	GuestCount int    `form:"guest_count"`
}
