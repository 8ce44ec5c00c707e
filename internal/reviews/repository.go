package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewableBooking is the slice of a booking row needed to decide whether a
// guest may review it.
type ReviewableBooking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	HomestayID uuid.UUID
	Status     string
}

type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListByHomestay(ctx context.Context, homestayID uuid.UUID, filters ListFilters) ([]ReviewResponse, int64, float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*ReviewableBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByHomestay(ctx context.Context, homestayID uuid.UUID, filters ListFilters) ([]ReviewResponse, int64, float64, error) {
	query := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("reviews.homestay_id = ?", homestayID)

	if filters.Rating > 0 {
		query = query.Where("reviews.rating = ?", filters.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	var avg float64
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("homestay_id = ?", homestayID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var out []ReviewResponse
	offset := (filters.Page - 1) * filters.PageSize
	err = query.
		Select("reviews.*, users.full_name AS reviewer_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC").
		Offset(offset).
		Limit(filters.PageSize).
		Scan(&out).Error
	if err != nil {
		return nil, 0, 0, err
	}

	return out, total, avg, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBooking reads the booking by table name so this package does not import
// the bookings package.
func (r *repository) GetBooking(ctx context.Context, bookingID uuid.UUID) (*ReviewableBooking, error) {
	var booking ReviewableBooking
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("id, user_id, homestay_id, status").
		Where("id = ?", bookingID).
		Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &booking, nil
}
