package homestays

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/internal/availability"
	"homestay/pkg/cache"
	"homestay/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHomestayNotFound = errors.New("homestay not found")
	ErrNotOwner         = errors.New("homestay does not belong to this host")
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
)

// AvailabilityChecker reports whether a homestay has rooms free for a stay.
// Implemented by the rooms service; injected to avoid a package cycle.
type AvailabilityChecker interface {
	AvailableRoomCount(ctx context.Context, homestayID uuid.UUID, requested availability.Stay, guestCount int) (int, error)
}

type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateHomestayRequest) (*Homestay, error)
	GetByID(ctx context.Context, id string) (*HomestayResponse, error)
	Search(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error)
	SearchPublic(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error)
	Update(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool, req UpdateHomestayRequest) (*HomestayResponse, error)
	ToggleStatus(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool) (*HomestayResponse, error)
	Delete(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool) error
	GetTop(ctx context.Context, limit int) ([]HomestayResponse, error)
	GetOwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error)
	GetStats(ctx context.Context, id string) (*HomestayStats, error)

	// SetAvailabilityChecker injects the rooms-side availability lookup.
	SetAvailabilityChecker(checker AvailabilityChecker)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
	checker  AvailabilityChecker
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func (s *service) SetAvailabilityChecker(checker AvailabilityChecker) {
	s.checker = checker
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateHomestayRequest) (*Homestay, error) {
	homestay := &Homestay{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		District:    req.District,
		Ward:        req.Ward,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      string(StatusPending),
	}

	if err := s.repo.Create(ctx, homestay); err != nil {
		return nil, fmt.Errorf("failed to create homestay: %w", err)
	}

	s.invalidateCaches(ctx)
	return homestay, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*HomestayResponse, error) {
	homestayID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	cacheKey := cache.KeyHomestay + id
	var resp HomestayResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &resp); err == nil {
			return &resp, nil
		}
	}

	detail, err := s.repo.GetDetailByID(ctx, homestayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomestayNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, detail, s.cacheTTL)
	}
	return detail, nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error) {
	filters.Normalize()
	return s.repo.Search(ctx, filters)
}

// SearchPublic lists active homestays only and, when a date range is given,
// keeps just those with at least one room free for the whole range.
func (s *service) SearchPublic(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error) {
	filters.Normalize()
	filters.Status = string(StatusActive)

	requested, err := parseStayFilters(filters.CheckIn, filters.CheckOut)
	if err != nil {
		return nil, err
	}

	if requested.IsZero() || s.checker == nil {
		return s.repo.Search(ctx, filters)
	}

	// The availability filter must see the whole candidate set before the
	// page is cut, otherwise Total would only count the current page.
	candidates, err := s.repo.SearchAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	filtered := make([]HomestayResponse, 0, len(candidates))
	for _, h := range candidates {
		count, err := s.checker.AvailableRoomCount(ctx, h.ID, requested, filters.GuestCount)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			filtered = append(filtered, h)
		}
	}

	start := (filters.Page - 1) * filters.PageSize
	end := start + filters.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &PaginatedHomestays{
		Homestays: filtered[start:end],
		Total:     int64(len(filtered)),
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	}, nil
}

func (s *service) Update(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool, req UpdateHomestayRequest) (*HomestayResponse, error) {
	homestay, err := s.getOwned(ctx, id, ownerID, isAdmin)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.District != nil {
		updates["district"] = *req.District
	}
	if req.Ward != nil {
		updates["ward"] = *req.Ward
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, homestay.ID, updates); err != nil {
			return nil, err
		}
		s.invalidateCaches(ctx)
	}

	return s.repo.GetDetailByID(ctx, homestay.ID)
}

func (s *service) ToggleStatus(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool) (*HomestayResponse, error) {
	homestay, err := s.getOwned(ctx, id, ownerID, isAdmin)
	if err != nil {
		return nil, err
	}

	next := Status(homestay.Status).Toggled()
	if err := s.repo.Update(ctx, homestay.ID, map[string]interface{}{"status": string(next)}); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx)
	return s.repo.GetDetailByID(ctx, homestay.ID)
}

func (s *service) Delete(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool) error {
	homestay, err := s.getOwned(ctx, id, ownerID, isAdmin)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, homestay.ID); err != nil {
		return err
	}

	s.invalidateCaches(ctx)
	return nil
}

func (s *service) GetTop(ctx context.Context, limit int) ([]HomestayResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s:%d", cache.KeyHomestayTop, limit)
	var out []HomestayResponse
	if s.cache != nil {
		if err := s.cache.GetOrSet(ctx, cacheKey, s.cacheTTL, func() (interface{}, error) {
			return s.repo.GetTop(ctx, limit)
		}, &out); err == nil {
			return out, nil
		}
	}

	return s.repo.GetTop(ctx, limit)
}

func (s *service) GetOwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error) {
	return s.repo.GetOwnerStats(ctx, ownerID)
}

func (s *service) GetStats(ctx context.Context, id string) (*HomestayStats, error) {
	homestayID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}
	return s.repo.GetStats(ctx, homestayID)
}

// getOwned loads a homestay and enforces owner scoping for non-admins.
func (s *service) getOwned(ctx context.Context, id string, ownerID uuid.UUID, isAdmin bool) (*Homestay, error) {
	homestayID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	homestay, err := s.repo.GetByID(ctx, homestayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomestayNotFound
		}
		return nil, err
	}

	if !isAdmin && homestay.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return homestay, nil
}

func (s *service) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.KeyHomestayPattern); err != nil {
		// Stale entries expire on their own TTL anyway.
		logger.GetDefault().Warn("failed to invalidate homestay cache", "error", err)
	}
}

// parseStayFilters parses optional date filters as calendar dates.
func parseStayFilters(checkIn, checkOut string) (availability.Stay, error) {
	if checkIn == "" || checkOut == "" {
		return availability.Stay{}, nil
	}

	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return availability.Stay{}, fmt.Errorf("invalid check_in date: %w", err)
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return availability.Stay{}, fmt.Errorf("invalid check_out date: %w", err)
	}

	stay := availability.NewStay(in, out)
	if !stay.IsValid() {
		return availability.Stay{}, ErrInvalidDateRange
	}
	return stay, nil
}
