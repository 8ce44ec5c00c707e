package reviews

import (
	"context"
	"errors"
	"fmt"

	"homestay/pkg/cache"
	"homestay/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrNotYourBooking     = errors.New("booking does not belong to this user")
	ErrBookingNotComplete = errors.New("only completed stays can be reviewed")
	ErrAlreadyReviewed    = errors.New("booking has already been reviewed")
	ErrNotAllowed         = errors.New("not allowed to delete this review")
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*Review, error)
	ListByHomestay(ctx context.Context, homestayID string, filters ListFilters) (*PaginatedReviews, error)
	Delete(ctx context.Context, id string, userID uuid.UUID, isAdmin bool) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

// Create adds a review for a completed stay. Only the guest who booked can
// review, and only once per booking.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrNotYourBooking
	}
	if booking.Status != "completed" {
		return nil, ErrBookingNotComplete
	}

	exists, err := s.repo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &Review{
		ID:         uuid.New(),
		BookingID:  bookingID,
		HomestayID: booking.HomestayID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Ratings surface in homestay listings and top rankings.
	s.invalidateHomestayCaches(ctx)
	return review, nil
}

func (s *service) ListByHomestay(ctx context.Context, homestayID string, filters ListFilters) (*PaginatedReviews, error) {
	id, err := uuid.Parse(homestayID)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	filters.Normalize()
	reviewList, total, avg, err := s.repo.ListByHomestay(ctx, id, filters)
	if err != nil {
		return nil, err
	}

	return &PaginatedReviews{
		Reviews:   reviewList,
		Total:     total,
		AvgRating: avg,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	}, nil
}

func (s *service) Delete(ctx context.Context, id string, userID uuid.UUID, isAdmin bool) error {
	reviewID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid review ID: %w", err)
	}

	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if !isAdmin && review.UserID != userID {
		return ErrNotAllowed
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.invalidateHomestayCaches(ctx)
	return nil
}

func (s *service) invalidateHomestayCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.KeyHomestayPattern); err != nil {
		s.log.Warn("failed to invalidate homestay cache", "error", err)
	}
}
