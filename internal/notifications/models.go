package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated   EventType = "BOOKING_CREATED"
	EventBookingCancelled EventType = "BOOKING_CANCELLED"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusQueued   Status = "QUEUED"
	StatusSending  Status = "SENDING"
	StatusSent     Status = "SENT"
	StatusFailed   Status = "FAILED"
	StatusRetrying Status = "RETRYING"
)

// EmailNotification is the message that travels through the notification
// topic. Data carries the template fields for the email body.
type EmailNotification struct {
	ID             uuid.UUID              `json:"id"`
	Type           EventType              `json:"type"`
	RecipientEmail string                 `json:"recipient_email"`
	RecipientName  string                 `json:"recipient_name"`
	Subject        string                 `json:"subject"`
	Data           map[string]interface{} `json:"data"`

	Status     Status     `json:"status"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
	LastError  *string    `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
}

func NewEmailNotification(eventType EventType, email, name, subject string, data map[string]interface{}) *EmailNotification {
	now := time.Now()
	return &EmailNotification{
		ID:             uuid.New(),
		Type:           eventType,
		RecipientEmail: email,
		RecipientName:  name,
		Subject:        subject,
		Data:           data,
		Status:         StatusPending,
		MaxRetries:     3,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// PartitionKey keeps one recipient's notifications ordered.
func (n *EmailNotification) PartitionKey() string {
	return n.RecipientEmail
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *EmailNotification) MarkSent() {
	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *EmailNotification) MarkFailed(err error) {
	n.Status = StatusFailed
	n.UpdatedAt = time.Now()
	errStr := err.Error()
	n.LastError = &errStr
}
