package payments

import (
	"context"
	"errors"
	"fmt"

	"homestay/internal/users"
	"homestay/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrNotAllowed       = errors.New("not allowed to manage payments for this booking")
	ErrNotRefundable    = errors.New("only completed payments can be refunded")
	ErrBookingCancelled = errors.New("cannot record payment on a cancelled booking")
)

type Service interface {
	Record(ctx context.Context, bookingID string, actorID uuid.UUID, isAdmin bool, req RecordPaymentRequest) (*PaymentResponse, error)
	Refund(ctx context.Context, paymentID string, actorID uuid.UUID, isAdmin bool, req RefundPaymentRequest) (*PaymentResponse, error)
	ListByBooking(ctx context.Context, bookingID string, actorID uuid.UUID, role string) (*BookingPayments, error)

	// RecordInitialPayment satisfies the booking service's payment hook for
	// deposits taken at booking time.
	RecordInitialPayment(ctx context.Context, bookingID uuid.UUID, amount float64) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// Record books a completed payment against a booking. Only the owning host or
// an admin can record payments.
func (s *service) Record(ctx context.Context, bookingID string, actorID uuid.UUID, isAdmin bool, req RecordPaymentRequest) (*PaymentResponse, error) {
	ledger, err := s.authorizedLedger(ctx, bookingID, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if ledger.Status == "cancelled" {
		return nil, ErrBookingCancelled
	}

	payment := &Payment{
		ID:            uuid.New(),
		BookingID:     ledger.ID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        StatusCompleted,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}

	if err := s.repo.Record(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.log.LogPaymentRecorded(ctx, payment.ID.String(), ledger.ID.String(), payment.Amount)
	resp := toResponse(payment)
	return &resp, nil
}

func (s *service) Refund(ctx context.Context, paymentID string, actorID uuid.UUID, isAdmin bool, req RefundPaymentRequest) (*PaymentResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID: %w", err)
	}

	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if _, err := s.authorizedLedger(ctx, payment.BookingID.String(), actorID, isAdmin); err != nil {
		return nil, err
	}

	refunded, err := s.repo.Refund(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment refunded",
		"payment_id", refunded.ID,
		"booking_id", refunded.BookingID,
		"amount", refunded.Amount,
		"notes", req.Notes,
	)
	resp := toResponse(refunded)
	return &resp, nil
}

// ListByBooking returns a booking's payment ledger. The booking's guest can
// read it; recording stays host-side.
func (s *service) ListByBooking(ctx context.Context, bookingID string, actorID uuid.UUID, role string) (*BookingPayments, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	ledger, err := s.repo.GetBookingLedger(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	allowed := role == string(users.RoleAdmin) || ledger.UserID == actorID
	if !allowed {
		ownerID, err := s.repo.GetHomestayOwner(ctx, ledger.HomestayID)
		if err != nil {
			return nil, err
		}
		allowed = ownerID == actorID
	}
	if !allowed {
		return nil, ErrNotAllowed
	}

	paymentList, err := s.repo.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]PaymentResponse, 0, len(paymentList))
	for i := range paymentList {
		out = append(out, toResponse(&paymentList[i]))
	}

	return &BookingPayments{
		BookingID:   ledger.ID,
		TotalAmount: ledger.TotalAmount,
		PaidAmount:  ledger.PaidAmount,
		Outstanding: ledger.TotalAmount - ledger.PaidAmount,
		Payments:    out,
	}, nil
}

func (s *service) RecordInitialPayment(ctx context.Context, bookingID uuid.UUID, amount float64) error {
	payment := &Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		Amount:    amount,
		Method:    MethodCash,
		Status:    StatusCompleted,
		Notes:     "deposit at booking",
	}

	if err := s.repo.Record(ctx, payment); err != nil {
		return err
	}

	s.log.LogPaymentRecorded(ctx, payment.ID.String(), bookingID.String(), amount)
	return nil
}

func (s *service) authorizedLedger(ctx context.Context, bookingID string, actorID uuid.UUID, isAdmin bool) (*BookingLedger, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	ledger, err := s.repo.GetBookingLedger(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !isAdmin {
		ownerID, err := s.repo.GetHomestayOwner(ctx, ledger.HomestayID)
		if err != nil {
			return nil, err
		}
		if ownerID != actorID {
			return nil, ErrNotAllowed
		}
	}
	return ledger, nil
}
