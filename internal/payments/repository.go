package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOverpayment = errors.New("payment exceeds outstanding amount")

// BookingLedger is the payment-relevant slice of a booking row, read by table
// name so this package does not import the bookings package.
type BookingLedger struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	HomestayID  uuid.UUID
	TotalAmount float64
	PaidAmount  float64
	Status      string
}

type Repository interface {
	// Record inserts a completed payment and rolls it up into the booking's
	// paid amount in one transaction. A booking that becomes fully paid while
	// still pending is confirmed.
	Record(ctx context.Context, payment *Payment) error
	Refund(ctx context.Context, paymentID uuid.UUID) (*Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	GetBookingLedger(ctx context.Context, bookingID uuid.UUID) (*BookingLedger, error)
	GetHomestayOwner(ctx context.Context, homestayID uuid.UUID) (uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ledger BookingLedger
		err := tx.
			Table("bookings").
			Select("id, user_id, homestay_id, total_amount, paid_amount, status").
			Where("id = ?", payment.BookingID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scan(&ledger).Error
		if err != nil {
			return err
		}
		if ledger.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}

		newPaid := ledger.PaidAmount + payment.Amount
		if newPaid > ledger.TotalAmount {
			return ErrOverpayment
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"paid_amount": newPaid}
		if newPaid >= ledger.TotalAmount && ledger.Status == "pending" {
			updates["status"] = "confirmed"
		}
		return tx.Table("bookings").Where("id = ?", ledger.ID).Updates(updates).Error
	})
}

func (r *repository) Refund(ctx context.Context, paymentID uuid.UUID) (*Payment, error) {
	var refunded Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&refunded, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if refunded.Status != StatusCompleted {
			return ErrNotRefundable
		}

		if err := tx.Model(&Payment{}).
			Where("id = ?", paymentID).
			Update("status", StatusRefunded).Error; err != nil {
			return err
		}
		refunded.Status = StatusRefunded

		return tx.Table("bookings").
			Where("id = ?", refunded.BookingID).
			Update("paid_amount", gorm.Expr("paid_amount - ?", refunded.Amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return &refunded, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var out []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) GetBookingLedger(ctx context.Context, bookingID uuid.UUID) (*BookingLedger, error) {
	var ledger BookingLedger
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("id, user_id, homestay_id, total_amount, paid_amount, status").
		Where("id = ?", bookingID).
		Scan(&ledger).Error
	if err != nil {
		return nil, err
	}
	if ledger.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &ledger, nil
}

func (r *repository) GetHomestayOwner(ctx context.Context, homestayID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.WithContext(ctx).
		Table("homestays").
		Select("owner_id").
		Where("id = ?", homestayID).
		Scan(&ownerID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if ownerID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return ownerID, nil
}
