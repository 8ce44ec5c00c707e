package rooms

import (
	"context"
	"time"

	"homestay/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error)
	ListByHomestay(ctx context.Context, homestayID uuid.UUID, filters ListFilters) ([]Room, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetHomestayOwner(ctx context.Context, homestayID uuid.UUID) (uuid.UUID, error)
	GetBlockingBookings(ctx context.Context, roomIDs []uuid.UUID, requested availability.Stay) ([]availability.Booking, error)

	UpsertAvailability(ctx context.Context, entries []RoomAvailability) error
	ListAvailability(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]RoomAvailability, error)
	GetAvailabilityByID(ctx context.Context, id uuid.UUID) (*RoomAvailability, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error) {
	var out []Room
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *repository) ListByHomestay(ctx context.Context, homestayID uuid.UUID, filters ListFilters) ([]Room, error) {
	query := r.db.WithContext(ctx).Model(&Room{}).Where("homestay_id = ?", homestayID)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.MinPrice > 0 {
		query = query.Where("price_per_night >= ?", filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		query = query.Where("price_per_night <= ?", filters.MaxPrice)
	}
	if filters.GuestCount > 0 {
		query = query.Where("capacity >= ?", filters.GuestCount)
	}

	var out []Room
	err := query.Order("price_per_night ASC").Find(&out).Error
	return out, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Room{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Room{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetHomestayOwner resolves the owning host of a homestay. Queried by table
// name so this package does not import the homestays package.
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

type blockingRow struct {
	BookingID    uuid.UUID
	RoomID       uuid.UUID
	CheckInDate  time.Time
	CheckOutDate time.Time
	Status       string
}

// GetBlockingBookings loads non-cancelled bookings touching any of the given
// rooms as evaluator snapshots. The date bound is a coarse prefilter on the
// half-open interval; the evaluator remains the authority on conflicts.
func (r *repository) GetBlockingBookings(ctx context.Context, roomIDs []uuid.UUID, requested availability.Stay) ([]availability.Booking, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Table("booking_rooms").
		Select("bookings.id AS booking_id, booking_rooms.room_id, bookings.check_in_date, bookings.check_out_date, bookings.status").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id IN ?", roomIDs).
		Where("bookings.status <> ?", "cancelled")

	if !requested.IsZero() {
		query = query.
			Where("bookings.check_in_date < ?", requested.CheckOut).
			Where("bookings.check_out_date > ?", requested.CheckIn)
	}

	var rows []blockingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	// A booking spanning several rooms comes back as one row per room.
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

	// Host-blocked calendar days occupy a room the same way a booking does:
	// each one becomes a synthetic one-night blocking interval.
	blocked, err := r.getBlockedDays(ctx, roomIDs, requested)
	if err != nil {
		return nil, err
	}
	return append(out, blocked...), nil
}

func (r *repository) getBlockedDays(ctx context.Context, roomIDs []uuid.UUID, requested availability.Stay) ([]availability.Booking, error) {
	query := r.db.WithContext(ctx).
		Model(&RoomAvailability{}).
		Where("room_id IN ?", roomIDs).
		Where("status = ?", DayBlocked)

	if !requested.IsZero() {
		query = query.
			Where("date >= ?", requested.CheckIn).
			Where("date < ?", requested.CheckOut)
	}

	var entries []RoomAvailability
	if err := query.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	out := make([]availability.Booking, 0, len(entries))
	for _, entry := range entries {
		out = append(out, availability.Booking{
			ID:      entry.ID,
			RoomIDs: []uuid.UUID{entry.RoomID},
			Stay:    availability.NewStay(entry.Date, entry.Date.AddDate(0, 0, 1)),
			Status:  availability.BookingConfirmed,
		})
	}
	return out, nil
}

// UpsertAvailability writes one calendar entry per date, overwriting any
// existing entry for the same room and date.
func (r *repository) UpsertAvailability(ctx context.Context, entries []RoomAvailability) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "price", "updated_at"}),
		}).
		Create(&entries).Error
}

func (r *repository) ListAvailability(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]RoomAvailability, error) {
	query := r.db.WithContext(ctx).
		Model(&RoomAvailability{}).
		Where("room_id = ?", roomID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date < ?", to)
	}

	var out []RoomAvailability
	err := query.Order("date ASC").Find(&out).Error
	return out, err
}

func (r *repository) GetAvailabilityByID(ctx context.Context, id uuid.UUID) (*RoomAvailability, error) {
	var entry RoomAvailability
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) UpdateAvailability(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&RoomAvailability{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
