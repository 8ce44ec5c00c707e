package homestays

// create homestay request
type CreateHomestayRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description"`
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	District    string  `json:"district"`
	Ward        string  `json:"ward"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// update homestay request; nil fields are left unchanged
type UpdateHomestayRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	District    *string  `json:"district"`
	Ward        *string  `json:"ward"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

// search filters for homestay listings
type SearchFilters struct {
	Name     string `form:"name"`
	City     string `form:"city"`
	District string `form:"district"`
	Status   string `form:"status"`
	OwnerID  string `form:"owner_id"`

	// Optional availability constraint: both dates set means "has at least
	// one room free for the whole range".
	CheckIn    string `form:"check_in"`  // 2006-01-02
	CheckOut   string `form:"check_out"` // 2006-01-02
	GuestCount int    `form:"guest_count"`

	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// Normalize clamps pagination to sane bounds.
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
