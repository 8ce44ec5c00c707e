package homestays

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface for homestay operations
type Repository interface {
	Create(ctx context.Context, homestay *Homestay) error
	GetByID(ctx context.Context, id uuid.UUID) (*Homestay, error)
	GetDetailByID(ctx context.Context, id uuid.UUID) (*HomestayResponse, error)
	Search(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error)
	SearchAll(ctx context.Context, filters SearchFilters) ([]HomestayResponse, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetTop(ctx context.Context, limit int) ([]HomestayResponse, error)
	GetOwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error)
	GetStats(ctx context.Context, id uuid.UUID) (*HomestayStats, error)
}

// repository implements Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new homestay repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// detailSelect enriches rows with review/room aggregates in one query.
const detailSelect = `homestays.*,
	users.full_name AS owner_name,
	(SELECT COALESCE(AVG(reviews.rating), 0) FROM reviews WHERE reviews.homestay_id = homestays.id) AS avg_rating,
	(SELECT COUNT(*) FROM reviews WHERE reviews.homestay_id = homestays.id) AS review_count,
	(SELECT COUNT(*) FROM rooms WHERE rooms.homestay_id = homestays.id) AS room_count,
	(SELECT COALESCE(MIN(rooms.price_per_night), 0) FROM rooms WHERE rooms.homestay_id = homestays.id) AS min_price`

// detailRow carries the joined aggregates next to the base columns.
type detailRow struct {
	Homestay
	OwnerName   string  `gorm:"column:owner_name"`
	AvgRating   float64 `gorm:"column:avg_rating"`
	ReviewCount int64   `gorm:"column:review_count"`
	RoomCount   int64   `gorm:"column:room_count"`
	MinPrice    float64 `gorm:"column:min_price"`
}

func (row detailRow) toResponse() HomestayResponse {
	return HomestayResponse{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		OwnerName:   row.OwnerName,
		Name:        row.Name,
		Description: row.Description,
		Address:     row.Address,
		City:        row.City,
		District:    row.District,
		Ward:        row.Ward,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		Status:      row.Status,
		AvgRating:   row.AvgRating,
		ReviewCount: row.ReviewCount,
		RoomCount:   row.RoomCount,
		MinPrice:    row.MinPrice,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *repository) Create(ctx context.Context, homestay *Homestay) error {
	return r.db.WithContext(ctx).Create(homestay).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Homestay, error) {
	var homestay Homestay
	err := r.db.WithContext(ctx).First(&homestay, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &homestay, nil
}

func (r *repository) GetDetailByID(ctx context.Context, id uuid.UUID) (*HomestayResponse, error) {
	var row detailRow
	err := r.db.WithContext(ctx).
		Model(&Homestay{}).
		Select(detailSelect).
		Joins("LEFT JOIN users ON users.id = homestays.owner_id").
		Where("homestays.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	resp := row.toResponse()
	return &resp, nil
}

// searchQuery applies the shared search filters.
func (r *repository) searchQuery(ctx context.Context, filters SearchFilters) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(&Homestay{})

	if filters.Name != "" {
		query = query.Where("homestays.name ILIKE ?", fmt.Sprintf("%%%s%%", filters.Name))
	}
	if filters.City != "" {
		query = query.Where("homestays.city ILIKE ?", fmt.Sprintf("%%%s%%", filters.City))
	}
	if filters.District != "" {
		query = query.Where("homestays.district ILIKE ?", fmt.Sprintf("%%%s%%", filters.District))
	}
	if filters.Status != "" {
		query = query.Where("homestays.status = ?", filters.Status)
	}
	if filters.OwnerID != "" {
		ownerID, err := uuid.Parse(filters.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner ID: %w", err)
		}
		query = query.Where("homestays.owner_id = ?", ownerID)
	}
	return query, nil
}

func searchOrder(filters SearchFilters) string {
	sortBy := filters.SortBy
	switch sortBy {
	case "name", "city", "created_at", "avg_rating", "min_price":
	default:
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

func (r *repository) Search(ctx context.Context, filters SearchFilters) (*PaginatedHomestays, error) {
	query, err := r.searchQuery(ctx, filters)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []detailRow
	err = query.
		Select(detailSelect).
		Joins("LEFT JOIN users ON users.id = homestays.owner_id").
		Order(searchOrder(filters)).
		Offset((filters.Page - 1) * filters.PageSize).
		Limit(filters.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	homestays := make([]HomestayResponse, 0, len(rows))
	for _, row := range rows {
		homestays = append(homestays, row.toResponse())
	}

	return &PaginatedHomestays{
		Homestays: homestays,
		Total:     total,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	}, nil
}

// SearchAll returns every matching row, sorted but unpaginated. Dated public
// searches page in the service after the availability filter has run.
func (r *repository) SearchAll(ctx context.Context, filters SearchFilters) ([]HomestayResponse, error) {
	query, err := r.searchQuery(ctx, filters)
	if err != nil {
		return nil, err
	}

	var rows []detailRow
	err = query.
		Select(detailSelect).
		Joins("LEFT JOIN users ON users.id = homestays.owner_id").
		Order(searchOrder(filters)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	homestays := make([]HomestayResponse, 0, len(rows))
	for _, row := range rows {
		homestays = append(homestays, row.toResponse())
	}
	return homestays, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Homestay{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Homestay{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetTop(ctx context.Context, limit int) ([]HomestayResponse, error) {
	var rows []detailRow
	err := r.db.WithContext(ctx).
		Model(&Homestay{}).
		Select(detailSelect).
		Joins("LEFT JOIN users ON users.id = homestays.owner_id").
		Where("homestays.status = ?", StatusActive).
		Order("avg_rating DESC, review_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	homestays := make([]HomestayResponse, 0, len(rows))
	for _, row := range rows {
		homestays = append(homestays, row.toResponse())
	}
	return homestays, nil
}

func (r *repository) GetOwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error) {
	stats := &OwnerStats{}

	base := r.db.WithContext(ctx).Model(&Homestay{}).Where("owner_id = ?", ownerID)
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalHomestays).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		status Status
		dest   *int64
	}{
		{StatusActive, &stats.ActiveHomestays},
		{StatusPending, &stats.PendingHomestays},
		{StatusInactive, &stats.InactiveHomestays},
	}
	for _, c := range counts {
		err := r.db.WithContext(ctx).Model(&Homestay{}).
			Where("owner_id = ? AND status = ?", ownerID, c.status).
			Count(c.dest).Error
		if err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func (r *repository) GetStats(ctx context.Context, id uuid.UUID) (*HomestayStats, error) {
	stats := &HomestayStats{HomestayID: id}

	bookings := r.db.WithContext(ctx).Table("bookings").Where("homestay_id = ?", id)
	if err := bookings.Session(&gorm.Session{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Table("bookings").
		Where("homestay_id = ? AND status IN ('pending', 'confirmed')", id).
		Count(&stats.ActiveBookings).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Table("bookings").
		Where("homestay_id = ? AND status = 'cancelled'", id).
		Count(&stats.CancelledBookings).Error
	if err != nil {
		return nil, err
	}

	// Revenue counts only money actually collected.
	err = r.db.WithContext(ctx).Table("bookings").
		Where("homestay_id = ? AND status <> 'cancelled'", id).
		Select("COALESCE(SUM(paid_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Table("reviews").
		Where("homestay_id = ?", id).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AvgRating).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Table("reviews").
		Where("homestay_id = ?", id).
		Count(&stats.ReviewCount).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
