package payments

import (
	"time"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingPayments summarises a booking's ledger.
type BookingPayments struct {
	BookingID   uuid.UUID         `json:"booking_id"`
	TotalAmount float64           `json:"total_amount"`
	PaidAmount  float64           `json:"paid_amount"`
	Outstanding float64           `json:"outstanding"`
	Payments    []PaymentResponse `json:"payments"`
}

func toResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}
