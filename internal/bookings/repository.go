package bookings

import (
	"context"
	"fmt"
	"time"

	"homestay/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictError reports which rooms could not take the requested stay.
type ConflictError struct {
	UnavailableRoomIDs []uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d room(s) unavailable for the requested dates", len(e.UnavailableRoomIDs))
}

// HomestayMeta is the slice of a homestay a booking flow needs.
type HomestayMeta struct {
	ID      uuid.UUID
	Name    string
	OwnerID uuid.UUID
	Status  string
}

type Repository interface {
	// CreateChecked re-evaluates every candidate room against the bookings
	// table inside one transaction and inserts the booking only if all rooms
	// are free. Returns *ConflictError when any room is taken.
	CreateChecked(ctx context.Context, booking *Booking, candidates []availability.Room, requested availability.Stay) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	Search(ctx context.Context, filters SearchFilters, userID, ownerID *uuid.UUID) ([]Booking, map[uuid.UUID]string, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	GetHomestayMeta(ctx context.Context, homestayID uuid.UUID) (*HomestayMeta, error)
	GetHomestayName(ctx context.Context, homestayID uuid.UUID) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type blockingRow struct {
	BookingID    uuid.UUID
	RoomID       uuid.UUID
	CheckInDate  time.Time
	CheckOutDate time.Time
	Status       string
}

func (r *repository) CreateChecked(ctx context.Context, booking *Booking, candidates []availability.Room, requested availability.Stay) error {
	roomIDs := make([]uuid.UUID, 0, len(candidates))
	for _, room := range candidates {
		roomIDs = append(roomIDs, room.ID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []blockingRow
		err := tx.
			Table("booking_rooms").
			Select("bookings.id AS booking_id, booking_rooms.room_id, bookings.check_in_date, bookings.check_out_date, bookings.status").
			Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
			Where("booking_rooms.room_id IN ?", roomIDs).
			Where("bookings.status <> ?", string(StatusCancelled)).
			Where("bookings.check_in_date < ?", requested.CheckOut).
			Where("bookings.check_out_date > ?", requested.CheckIn).
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "bookings"}}).
			Scan(&rows).Error
		if err != nil {
			return err
		}

		existing := groupBlockingRows(rows)
		if ids := availability.UnavailableRooms(candidates, requested, existing); len(ids) > 0 {
			return &ConflictError{UnavailableRoomIDs: ids}
		}

		return tx.Create(booking).Error
	})
}

func groupBlockingRows(rows []blockingRow) []availability.Booking {
	byID := make(map[uuid.UUID]*availability.Booking)
	var order []uuid.UUID
	for _, row := range rows {
		b, ok := byID[row.BookingID]
		if !ok {
			b = &availability.Booking{
				ID:     row.BookingID,
				Stay:   availability.NewStay(row.CheckInDate, row.CheckOutDate),
				Status: availability.BookingStatus(row.Status),
			}
			byID[row.BookingID] = b
			order = append(order, row.BookingID)
		}
		b.RoomIDs = append(b.RoomIDs, row.RoomID)
	}

	out := make([]availability.Booking, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Rooms").First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Rooms").First(&booking, "booking_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Search lists bookings newest first. userID scopes to a guest's own
// bookings; ownerID scopes to bookings of the host's homestays. Also returns
// homestay names keyed by homestay id for the response layer.
func (r *repository) Search(ctx context.Context, filters SearchFilters, userID, ownerID *uuid.UUID) ([]Booking, map[uuid.UUID]string, int64, error) {
	query := r.db.WithContext(ctx).Model(&Booking{})

	if userID != nil {
		query = query.Where("bookings.user_id = ?", *userID)
	}
	if ownerID != nil {
		query = query.
			Joins("JOIN homestays ON homestays.id = bookings.homestay_id").
			Where("homestays.owner_id = ?", *ownerID)
	}
	if filters.Status != "" {
		query = query.Where("bookings.status = ?", filters.Status)
	}
	if filters.HomestayID != "" {
		query = query.Where("bookings.homestay_id = ?", filters.HomestayID)
	}
	if filters.BookingCode != "" {
		query = query.Where("bookings.booking_code = ?", filters.BookingCode)
	}
	if filters.FromDate != "" {
		query = query.Where("bookings.check_in_date >= ?", filters.FromDate)
	}
	if filters.ToDate != "" {
		query = query.Where("bookings.check_in_date <= ?", filters.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var bookingList []Booking
	offset := (filters.Page - 1) * filters.PageSize
	err := query.
		Preload("Rooms").
		Order("bookings.created_at DESC").
		Offset(offset).
		Limit(filters.PageSize).
		Find(&bookingList).Error
	if err != nil {
		return nil, nil, 0, err
	}

	names, err := r.homestayNames(ctx, bookingList)
	if err != nil {
		return nil, nil, 0, err
	}
	return bookingList, names, total, nil
}

func (r *repository) homestayNames(ctx context.Context, bookingList []Booking) (map[uuid.UUID]string, error) {
	idSet := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for i := range bookingList {
		if _, ok := idSet[bookingList[i].HomestayID]; !ok {
			idSet[bookingList[i].HomestayID] = struct{}{}
			ids = append(ids, bookingList[i].HomestayID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	type nameRow struct {
		ID   uuid.UUID
		Name string
	}
	var rows []nameRow
	err := r.db.WithContext(ctx).
		Table("homestays").
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// UpdateStatus moves a booking from one status to another. The current status
// is part of the WHERE clause so a concurrent transition loses cleanly.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetHomestayMeta(ctx context.Context, homestayID uuid.UUID) (*HomestayMeta, error) {
	var meta HomestayMeta
	err := r.db.WithContext(ctx).
		Table("homestays").
		Select("id, name, owner_id, status").
		Where("id = ?", homestayID).
		Scan(&meta).Error
	if err != nil {
		return nil, err
	}
	if meta.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &meta, nil
}

func (r *repository) GetHomestayName(ctx context.Context, homestayID uuid.UUID) (string, error) {
	meta, err := r.GetHomestayMeta(ctx, homestayID)
	if err != nil {
		return "", err
	}
	return meta.Name, nil
}
