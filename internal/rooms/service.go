package rooms

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
	ErrRoomNotFound     = errors.New("room not found")
	ErrHomestayNotFound = errors.New("homestay not found")
	ErrNotOwner         = errors.New("homestay does not belong to this host")
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrRoomMismatch     = errors.New("room does not belong to this homestay")
	ErrEntryNotFound    = errors.New("availability entry not found")
	ErrPastDate         = errors.New("cannot set availability for past dates")
)

type Service interface {
	Create(ctx context.Context, homestayID string, hostID uuid.UUID, isAdmin bool, req CreateRoomRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*RoomResponse, error)
	List(ctx context.Context, homestayID string, filters ListFilters) ([]RoomResponse, error)
	Update(ctx context.Context, id string, hostID uuid.UUID, isAdmin bool, req UpdateRoomRequest) (*RoomResponse, error)
	Delete(ctx context.Context, id string, hostID uuid.UUID, isAdmin bool) error
	CheckAvailability(ctx context.Context, roomID, checkIn, checkOut string) (*AvailabilityResponse, error)

	// Host-managed calendar: date blocks and nightly price overrides.
	SetAvailability(ctx context.Context, roomID string, hostID uuid.UUID, isAdmin bool, req SetAvailabilityRequest) ([]AvailabilityDayResponse, error)
	ListAvailability(ctx context.Context, roomID string, hostID uuid.UUID, isAdmin bool, filters CalendarFilters) ([]AvailabilityDayResponse, error)
	UpdateAvailability(ctx context.Context, entryID string, hostID uuid.UUID, isAdmin bool, req UpdateAvailabilityRequest) (*AvailabilityDayResponse, error)

	// AvailableRoomCount satisfies the homestays search filter hook.
	AvailableRoomCount(ctx context.Context, homestayID uuid.UUID, requested availability.Stay, guestCount int) (int, error)

	// GetRoomsForBooking and BlockingBookings feed the booking service's
	// conflict re-check without a reverse package dependency.
	GetRoomsForBooking(ctx context.Context, homestayID uuid.UUID, roomIDs []uuid.UUID) ([]Room, error)
	BlockingBookings(ctx context.Context, roomIDs []uuid.UUID, requested availability.Stay) ([]availability.Booking, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, homestayID string, hostID uuid.UUID, isAdmin bool, req CreateRoomRequest) (*Room, error) {
	hsID, err := s.verifyOwnership(ctx, homestayID, hostID, isAdmin)
	if err != nil {
		return nil, err
	}

	roomType := req.Type
	if roomType == "" {
		roomType = "standard"
	}

	room := &Room{
		ID:            uuid.New(),
		HomestayID:    hsID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          roomType,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		Status:        string(StatusAvailable),
		Images:        req.Images,
		Amenities:     req.Amenities,
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidateCaches(ctx)
	return room, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*RoomResponse, error) {
	roomID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID: %w", err)
	}

	room, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	resp := toResponse(room)
	return &resp, nil
}

// List returns a homestay's rooms. When the filters carry a complete date
// range each room is annotated with whether it is free for that range.
func (s *service) List(ctx context.Context, homestayID string, filters ListFilters) ([]RoomResponse, error) {
	hsID, err := uuid.Parse(homestayID)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	requested, err := parseStay(filters.CheckIn, filters.CheckOut)
	if err != nil {
		return nil, err
	}

	// Dateless listings are cacheable; date-constrained ones depend on live
	// booking state.
	if requested.IsZero() && s.cache != nil && filters == (ListFilters{}) {
		cacheKey := cache.KeyRoomList + homestayID
		var cached []RoomResponse
		if err := s.cache.GetOrSet(ctx, cacheKey, s.cacheTTL, func() (interface{}, error) {
			return s.listUncached(ctx, hsID, filters, requested)
		}, &cached); err == nil {
			return cached, nil
		}
	}

	return s.listUncached(ctx, hsID, filters, requested)
}

func (s *service) listUncached(ctx context.Context, hsID uuid.UUID, filters ListFilters, requested availability.Stay) ([]RoomResponse, error) {
	roomList, err := s.repo.ListByHomestay(ctx, hsID, filters)
	if err != nil {
		return nil, err
	}

	out := make([]RoomResponse, 0, len(roomList))
	if requested.IsZero() {
		for i := range roomList {
			out = append(out, toResponse(&roomList[i]))
		}
		return out, nil
	}

	roomIDs := make([]uuid.UUID, 0, len(roomList))
	for i := range roomList {
		roomIDs = append(roomIDs, roomList[i].ID)
	}

	existing, err := s.repo.GetBlockingBookings(ctx, roomIDs, requested)
	if err != nil {
		return nil, err
	}

	for i := range roomList {
		resp := toResponse(&roomList[i])
		free := availability.IsRoomAvailable(snapshot(&roomList[i]), requested, existing)
		resp.IsAvailable = &free
		out = append(out, resp)
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, hostID uuid.UUID, isAdmin bool, req UpdateRoomRequest) (*RoomResponse, error) {
	room, err := s.getOwned(ctx, id, hostID, isAdmin)
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
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.PricePerNight != nil {
		updates["price_per_night"] = *req.PricePerNight
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Images != nil {
		updates["images"] = *req.Images
	}
	if req.Amenities != nil {
		updates["amenities"] = *req.Amenities
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, room.ID, updates); err != nil {
			return nil, err
		}
		s.invalidateCaches(ctx)
	}

	updated, err := s.repo.GetByID(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(updated)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id string, hostID uuid.UUID, isAdmin bool) error {
	room, err := s.getOwned(ctx, id, hostID, isAdmin)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, room.ID); err != nil {
		return err
	}

	s.invalidateCaches(ctx)
	return nil
}

// CheckAvailability evaluates one room against a requested stay. Missing
// dates are reported as an unconstrained verdict rather than an error.
func (s *service) CheckAvailability(ctx context.Context, roomID, checkIn, checkOut string) (*AvailabilityResponse, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID: %w", err)
	}

	requested, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetBlockingBookings(ctx, []uuid.UUID{id}, requested)
	if err != nil {
		return nil, err
	}

	result := availability.Evaluate(snapshot(room), requested, existing)
	resp := &AvailabilityResponse{
		RoomID:    id,
		Verdict:   string(result.Verdict),
		Available: result.Bookable(),
	}
	if result.Conflict != nil {
		conflictID := result.Conflict.ID
		resp.ConflictingBookingID = &conflictID
	}
	return resp, nil
}

// SetAvailability writes one calendar entry per night in [start, end).
// Blocked entries keep the room out of new bookings for those nights.
func (s *service) SetAvailability(ctx context.Context, roomID string, hostID uuid.UUID, isAdmin bool, req SetAvailabilityRequest) ([]AvailabilityDayResponse, error) {
	room, err := s.getOwned(ctx, roomID, hostID, isAdmin)
	if err != nil {
		return nil, err
	}

	span, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if span.IsZero() {
		return nil, ErrInvalidDateRange
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if span.CheckIn.Before(today) {
		return nil, ErrPastDate
	}

	entries := make([]RoomAvailability, 0, span.Nights())
	for d := span.CheckIn; d.Before(span.CheckOut); d = d.AddDate(0, 0, 1) {
		entries = append(entries, RoomAvailability{
			ID:     uuid.New(),
			RoomID: room.ID,
			Date:   d,
			Status: req.Status,
			Price:  req.Price,
		})
	}

	if err := s.repo.UpsertAvailability(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to set availability: %w", err)
	}
	s.invalidateCaches(ctx)

	// Re-read so upserted rows report their stored ids.
	stored, err := s.repo.ListAvailability(ctx, room.ID, span.CheckIn, span.CheckOut)
	if err != nil {
		return nil, err
	}
	out := make([]AvailabilityDayResponse, 0, len(stored))
	for i := range stored {
		out = append(out, toDayResponse(&stored[i]))
	}
	return out, nil
}

func (s *service) ListAvailability(ctx context.Context, roomID string, hostID uuid.UUID, isAdmin bool, filters CalendarFilters) ([]AvailabilityDayResponse, error) {
	room, err := s.getOwned(ctx, roomID, hostID, isAdmin)
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	if filters.From != "" {
		if from, err = time.Parse("2006-01-02", filters.From); err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
	}
	if filters.To != "" {
		if to, err = time.Parse("2006-01-02", filters.To); err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}
	}

	entries, err := s.repo.ListAvailability(ctx, room.ID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]AvailabilityDayResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toDayResponse(&entries[i]))
	}
	return out, nil
}

func (s *service) UpdateAvailability(ctx context.Context, entryID string, hostID uuid.UUID, isAdmin bool, req UpdateAvailabilityRequest) (*AvailabilityDayResponse, error) {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return nil, fmt.Errorf("invalid availability ID: %w", err)
	}

	entry, err := s.repo.GetAvailabilityByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	// Ownership runs through the entry's room.
	if _, err := s.getOwned(ctx, entry.RoomID.String(), hostID, isAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateAvailability(ctx, id, updates); err != nil {
			return nil, err
		}
		s.invalidateCaches(ctx)
	}

	updated, err := s.repo.GetAvailabilityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDayResponse(updated)
	return &resp, nil
}

func (s *service) AvailableRoomCount(ctx context.Context, homestayID uuid.UUID, requested availability.Stay, guestCount int) (int, error) {
	roomList, err := s.repo.ListByHomestay(ctx, homestayID, ListFilters{
		Status:     string(StatusAvailable),
		GuestCount: guestCount,
	})
	if err != nil {
		return 0, err
	}
	if len(roomList) == 0 {
		return 0, nil
	}

	roomIDs := make([]uuid.UUID, 0, len(roomList))
	for i := range roomList {
		roomIDs = append(roomIDs, roomList[i].ID)
	}

	existing, err := s.repo.GetBlockingBookings(ctx, roomIDs, requested)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range roomList {
		if availability.IsRoomAvailable(snapshot(&roomList[i]), requested, existing) {
			count++
		}
	}
	return count, nil
}

// GetRoomsForBooking loads the requested rooms and checks each one belongs to
// the booking's homestay.
func (s *service) GetRoomsForBooking(ctx context.Context, homestayID uuid.UUID, roomIDs []uuid.UUID) ([]Room, error) {
	roomList, err := s.repo.GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	if len(roomList) != len(roomIDs) {
		return nil, ErrRoomNotFound
	}
	for i := range roomList {
		if roomList[i].HomestayID != homestayID {
			return nil, ErrRoomMismatch
		}
	}
	return roomList, nil
}

func (s *service) BlockingBookings(ctx context.Context, roomIDs []uuid.UUID, requested availability.Stay) ([]availability.Booking, error) {
	return s.repo.GetBlockingBookings(ctx, roomIDs, requested)
}

func (s *service) getOwned(ctx context.Context, id string, hostID uuid.UUID, isAdmin bool) (*Room, error) {
	roomID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID: %w", err)
	}

	room, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if !isAdmin {
		ownerID, err := s.repo.GetHomestayOwner(ctx, room.HomestayID)
		if err != nil {
			return nil, err
		}
		if ownerID != hostID {
			return nil, ErrNotOwner
		}
	}
	return room, nil
}

func (s *service) verifyOwnership(ctx context.Context, homestayID string, hostID uuid.UUID, isAdmin bool) (uuid.UUID, error) {
	hsID, err := uuid.Parse(homestayID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	ownerID, err := s.repo.GetHomestayOwner(ctx, hsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrHomestayNotFound
		}
		return uuid.Nil, err
	}

	if !isAdmin && ownerID != hostID {
		return uuid.Nil, ErrNotOwner
	}
	return hsID, nil
}

func (s *service) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.KeyRoomPattern); err != nil {
		s.log.Warn("failed to invalidate room cache", "error", err)
	}
	// Room prices and counts surface in homestay listings too.
	if err := s.cache.DeletePattern(ctx, cache.KeyHomestayPattern); err != nil {
		s.log.Warn("failed to invalidate homestay cache", "error", err)
	}
}

// snapshot converts a stored room into the evaluator's minimal view.
func snapshot(room *Room) availability.Room {
	return availability.Room{
		ID:            room.ID,
		Status:        availability.RoomStatus(room.Status),
		PricePerNight: room.PricePerNight,
	}
}

// parseStay parses a pair of optional calendar dates. Exactly one date set is
// treated the same as none, matching the evaluator's unconstrained rule.
func parseStay(checkIn, checkOut string) (availability.Stay, error) {
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
