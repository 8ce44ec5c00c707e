package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/internal/availability"
	"homestay/internal/rooms"
	"homestay/internal/users"
	"homestay/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrHomestayNotFound  = errors.New("homestay not found")
	ErrHomestayNotActive = errors.New("homestay is not accepting bookings")
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrCheckInPast       = errors.New("check-in date is in the past")
	ErrPaidExceedsTotal  = errors.New("paid amount exceeds total amount")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotAllowed        = errors.New("not allowed to access this booking")
	ErrRoomNotInHomestay = errors.New("room does not belong to this homestay")
	ErrDuplicateRoom     = errors.New("duplicate room in booking request")
)

// RoomProvider supplies room records for a booking. Implemented by the rooms
// service.
type RoomProvider interface {
	GetRoomsForBooking(ctx context.Context, homestayID uuid.UUID, roomIDs []uuid.UUID) ([]rooms.Room, error)
}

// PaymentRecorder records the initial payment taken with a booking.
// Implemented by the payments service; injected to avoid a package cycle.
type PaymentRecorder interface {
	RecordInitialPayment(ctx context.Context, bookingID uuid.UUID, amount float64) error
}

// BookingNotification is the payload handed to the notification pipeline.
type BookingNotification struct {
	BookingID    uuid.UUID `json:"booking_id"`
	BookingCode  string    `json:"booking_code"`
	HomestayName string    `json:"homestay_name"`
	GuestName    string    `json:"guest_name"`
	GuestEmail   string    `json:"guest_email"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Nights       int       `json:"nights"`
	TotalAmount  float64   `json:"total_amount"`
}

// NotificationPublisher pushes booking lifecycle events out of band.
type NotificationPublisher interface {
	PublishBookingCreated(ctx context.Context, n BookingNotification) error
	PublishBookingCancelled(ctx context.Context, n BookingNotification) error
}

// Actor identifies the authenticated caller for authorization decisions.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) isAdmin() bool {
	return a.Role == string(users.RoleAdmin)
}

type Service interface {
	Create(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingResponse, error)
	GetByID(ctx context.Context, id string, actor Actor) (*BookingResponse, error)
	GetByCode(ctx context.Context, code string, actor Actor) (*BookingResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filters SearchFilters) (*PaginatedBookings, error)
	ListForHost(ctx context.Context, ownerID uuid.UUID, filters SearchFilters) (*PaginatedBookings, error)
	ListAll(ctx context.Context, filters SearchFilters) (*PaginatedBookings, error)
	UpdateStatus(ctx context.Context, id string, actor Actor, next Status) (*BookingResponse, error)
	Cancel(ctx context.Context, id string, actor Actor) (*BookingResponse, error)
}

type service struct {
	repo         Repository
	roomProvider RoomProvider
	payments     PaymentRecorder
	notifier     NotificationPublisher
	log          *logger.Logger
}

func NewService(repo Repository, roomProvider RoomProvider, payments PaymentRecorder, notifier NotificationPublisher) Service {
	return &service{
		repo:         repo,
		roomProvider: roomProvider,
		payments:     payments,
		notifier:     notifier,
		log:          logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingResponse, error) {
	requested, err := parseRequiredStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	homestayID, err := uuid.Parse(req.HomestayID)
	if err != nil {
		return nil, fmt.Errorf("invalid homestay ID: %w", err)
	}

	meta, err := s.repo.GetHomestayMeta(ctx, homestayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomestayNotFound
		}
		return nil, err
	}
	if meta.Status != "active" {
		return nil, ErrHomestayNotActive
	}

	roomIDs, err := parseRoomIDs(req.RoomIDs)
	if err != nil {
		return nil, err
	}

	roomList, err := s.roomProvider.GetRoomsForBooking(ctx, homestayID, roomIDs)
	if err != nil {
		if errors.Is(err, rooms.ErrRoomMismatch) {
			return nil, ErrRoomNotInHomestay
		}
		return nil, err
	}

	candidates := make([]availability.Room, 0, len(roomList))
	bookingRooms := make([]BookingRoom, 0, len(roomList))
	for i := range roomList {
		candidates = append(candidates, availability.Room{
			ID:            roomList[i].ID,
			Status:        availability.RoomStatus(roomList[i].Status),
			PricePerNight: roomList[i].PricePerNight,
		})
		bookingRooms = append(bookingRooms, BookingRoom{
			RoomID:        roomList[i].ID,
			RoomName:      roomList[i].Name,
			PricePerNight: roomList[i].PricePerNight,
		})
	}

	nights := requested.Nights()
	total := availability.Total(candidates, nights)
	if req.PaidAmount > total {
		return nil, ErrPaidExceedsTotal
	}

	booking := &Booking{
		ID:           uuid.New(),
		BookingCode:  generateBookingCode(),
		UserID:       actor.UserID,
		HomestayID:   homestayID,
		CheckInDate:  requested.CheckIn,
		CheckOutDate: requested.CheckOut,
		GuestCount:   req.GuestCount,
		GuestName:    req.GuestName,
		GuestPhone:   req.GuestPhone,
		GuestEmail:   req.GuestEmail,
		Nights:       nights,
		TotalAmount:  total,
		Status:       string(StatusPending),
		Notes:        req.Notes,
		Rooms:        bookingRooms,
	}

	if err := s.repo.CreateChecked(ctx, booking, candidates, requested); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			for _, roomID := range conflict.UnavailableRoomIDs {
				s.log.LogRoomConflict(ctx, roomID.String(), "")
			}
		}
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), homestayID.String(), booking.BookingCode)

	if req.PaidAmount > 0 && s.payments != nil {
		if err := s.payments.RecordInitialPayment(ctx, booking.ID, req.PaidAmount); err != nil {
			s.log.Warn("failed to record initial payment", "booking_id", booking.ID, "error", err)
		} else {
			booking.PaidAmount = req.PaidAmount
		}
	}

	if s.notifier != nil {
		if err := s.notifier.PublishBookingCreated(ctx, s.notification(booking, meta.Name)); err != nil {
			s.log.Warn("failed to publish booking created event", "booking_id", booking.ID, "error", err)
		}
	}

	resp := toResponse(booking, meta.Name)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, id string, actor Actor) (*BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return s.authorizedResponse(ctx, booking, actor)
}

func (s *service) GetByCode(ctx context.Context, code string, actor Actor) (*BookingResponse, error) {
	booking, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return s.authorizedResponse(ctx, booking, actor)
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, filters SearchFilters) (*PaginatedBookings, error) {
	filters.Normalize()
	return s.search(ctx, filters, &userID, nil)
}

func (s *service) ListForHost(ctx context.Context, ownerID uuid.UUID, filters SearchFilters) (*PaginatedBookings, error) {
	filters.Normalize()
	return s.search(ctx, filters, nil, &ownerID)
}

func (s *service) ListAll(ctx context.Context, filters SearchFilters) (*PaginatedBookings, error) {
	filters.Normalize()
	return s.search(ctx, filters, nil, nil)
}

func (s *service) search(ctx context.Context, filters SearchFilters, userID, ownerID *uuid.UUID) (*PaginatedBookings, error) {
	bookingList, names, total, err := s.repo.Search(ctx, filters, userID, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookingList))
	for i := range bookingList {
		out = append(out, toResponse(&bookingList[i], names[bookingList[i].HomestayID]))
	}

	return &PaginatedBookings{
		Bookings: out,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// UpdateStatus moves a booking through its lifecycle. Hosts and admins drive
// confirm/complete; cancellation additionally allowed for the booking's own
// guest.
func (s *service) UpdateStatus(ctx context.Context, id string, actor Actor, next Status) (*BookingResponse, error) {
	if !next.IsValid() {
		return nil, ErrInvalidTransition
	}

	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	meta, err := s.repo.GetHomestayMeta(ctx, booking.HomestayID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(booking, meta, actor, next); err != nil {
		return nil, err
	}

	current := Status(booking.Status)
	if !current.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, current, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost a race against a concurrent transition.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.log.LogBookingStatusChanged(ctx, booking.ID.String(), string(current), string(next))
	booking.Status = string(next)

	if next == StatusCancelled && s.notifier != nil {
		if err := s.notifier.PublishBookingCancelled(ctx, s.notification(booking, meta.Name)); err != nil {
			s.log.Warn("failed to publish booking cancelled event", "booking_id", booking.ID, "error", err)
		}
	}

	resp := toResponse(booking, meta.Name)
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, id string, actor Actor) (*BookingResponse, error) {
	return s.UpdateStatus(ctx, id, actor, StatusCancelled)
}

func (s *service) authorizeTransition(booking *Booking, meta *HomestayMeta, actor Actor, next Status) error {
	if actor.isAdmin() || meta.OwnerID == actor.UserID {
		return nil
	}
	if next == StatusCancelled && booking.UserID == actor.UserID {
		return nil
	}
	return ErrNotAllowed
}

func (s *service) authorizedResponse(ctx context.Context, booking *Booking, actor Actor) (*BookingResponse, error) {
	meta, err := s.repo.GetHomestayMeta(ctx, booking.HomestayID)
	if err != nil {
		return nil, err
	}

	if !actor.isAdmin() && booking.UserID != actor.UserID && meta.OwnerID != actor.UserID {
		return nil, ErrNotAllowed
	}

	resp := toResponse(booking, meta.Name)
	return &resp, nil
}

func (s *service) notification(booking *Booking, homestayName string) BookingNotification {
	return BookingNotification{
		BookingID:    booking.ID,
		BookingCode:  booking.BookingCode,
		HomestayName: homestayName,
		GuestName:    booking.GuestName,
		GuestEmail:   booking.GuestEmail,
		CheckIn:      booking.CheckInDate,
		CheckOut:     booking.CheckOutDate,
		Nights:       booking.Nights,
		TotalAmount:  booking.TotalAmount,
	}
}

// generateBookingCode produces a human-readable reference like BK20260828153045.
func generateBookingCode() string {
	return "BK" + time.Now().Format("20060102150405")
}

func parseRoomIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid room ID %q: %w", r, err)
		}
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateRoom
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// parseRequiredStay parses booking dates; both are mandatory here, unlike the
// browse-time checks where an incomplete range is merely unconstrained.
func parseRequiredStay(checkIn, checkOut string) (availability.Stay, error) {
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

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if stay.CheckIn.Before(today) {
		return availability.Stay{}, ErrCheckInPast
	}
	return stay, nil
}
