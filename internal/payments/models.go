package payments

import (
	"time"

	"github.com/google/uuid"
)

// Payment is one recorded transaction against a booking. A booking may carry
// several payments (deposit first, remainder at check-in).
type Payment struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingID     uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Method        string    `json:"method" gorm:"default:'cash';check:method IN ('cash','bank_transfer','card')"`
	Status        string    `json:"status" gorm:"default:'completed';check:status IN ('pending','completed','failed','refunded')"`
	TransactionID string    `json:"transaction_id"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Method values
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
)

// Status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)
