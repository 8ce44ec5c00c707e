package payments

// record payment request
type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"method" validate:"required,oneof=cash bank_transfer card"`
	TransactionID string  `json:"transaction_id"`
	Notes         string  `json:"notes"`
}

// refund payment request
type RefundPaymentRequest struct {
	Notes string `json:"notes"`
}
