package homestays

import (
	"time"

	"github.com/google/uuid"
)

// Homestay is a property listed by a host; rooms hang off it.
type Homestay struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"not null" json:"address"`
	City        string    `gorm:"index;not null" json:"city"`
	District    string    `gorm:"index" json:"district"`
	Ward        string    `json:"ward"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `gorm:"type:varchar(20);check:status IN ('active', 'inactive', 'pending');default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Homestay) TableName() string {
	return "homestays"
}

func (h *Homestay) IsActive() bool {
	return Status(h.Status) == StatusActive
}
