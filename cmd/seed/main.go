package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"homestay/internal/availability"
	"homestay/internal/bookings"
	"homestay/internal/homestays"
	"homestay/internal/payments"
	"homestay/internal/rooms"
	"homestay/internal/shared/config"
	"homestay/internal/shared/database"
	"homestay/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Homestay Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reviews",
		"payments",
		"booking_rooms",
		"bookings",
		"rooms",
		"homestays",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	homestayIDs, err := s.SeedHomestays(userIDs["host"])
	if err != nil {
		return fmt.Errorf("failed to seed homestays: %w", err)
	}

	roomIDs, err := s.SeedRooms(homestayIDs)
	if err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	if err := s.SeedBookings(userIDs["guest"], homestayIDs[0], roomIDs[homestayIDs[0]]); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates one user per role.
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key      string
		fullName string
		email    string
		phone    string
		role     users.Role
	}{
		{"admin", "Admin User", "admin@homestay.local", "0900000001", users.RoleAdmin},
		{"host", "Lan Nguyen", "host@homestay.local", "0900000002", users.RoleHost},
		{"guest", "Minh Tran", "guest@homestay.local", "0900000003", users.RoleGuest},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FullName:  userData.fullName,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedHomestays creates sample homestays owned by the seeded host.
func (s *Seeder) SeedHomestays(hostID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🏡 Seeding homestays...")

	var homestayIDs []uuid.UUID

	homestaysData := []struct {
		name        string
		description string
		address     string
		city        string
		district    string
		ward        string
		lat, lng    float64
		status      string
	}{
		{
			name:        "Lakeside Homestay",
			description: "Quiet homestay by the lake with mountain views and a shared kitchen.",
			address:     "12 Ho Xuan Huong",
			city:        "Da Lat",
			district:    "Ward 9",
			ward:        "Ward 9",
			lat:         11.9404, lng: 108.4583,
			status: string(homestays.StatusActive),
		},
		{
			name:        "Old Quarter House",
			description: "Restored colonial house in the heart of the old town.",
			address:     "45 Hang Bac",
			city:        "Ha Noi",
			district:    "Hoan Kiem",
			ward:        "Hang Bac",
			lat:         21.0341, lng: 105.8521,
			status: string(homestays.StatusActive),
		},
		{
			name:        "Riverside Retreat",
			description: "Garden bungalows along the river, pending final inspection.",
			address:     "8 Nguyen Van Troi",
			city:        "Hoi An",
			district:    "Cam Chau",
			ward:        "Cam Chau",
			lat:         15.8794, lng: 108.3350,
			status: string(homestays.StatusPending),
		},
	}

	for _, data := range homestaysData {
		homestay := homestays.Homestay{
			ID:          uuid.New(),
			OwnerID:     hostID,
			Name:        data.name,
			Description: data.description,
			Address:     data.address,
			City:        data.city,
			District:    data.district,
			Ward:        data.ward,
			Latitude:    data.lat,
			Longitude:   data.lng,
			Status:      data.status,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&homestay).Error; err != nil {
			return nil, fmt.Errorf("failed to create homestay %s: %w", homestay.Name, err)
		}

		homestayIDs = append(homestayIDs, homestay.ID)
		fmt.Printf("    ✅ Created homestay: %s (%s)\n", homestay.Name, homestay.Status)
	}

	return homestayIDs, nil
}

// SeedRooms creates rooms for each seeded homestay.
func (s *Seeder) SeedRooms(homestayIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	fmt.Println("  🛏️ Seeding rooms...")

	roomsData := []struct {
		name      string
		roomType  string
		capacity  int
		price     float64
		amenities string
	}{
		{"Garden Room", "standard", 2, 50.0, "wifi,fan,garden view"},
		{"Lake Room", "deluxe", 2, 80.0, "wifi,air conditioning,lake view"},
		{"Family Suite", "family", 4, 120.0, "wifi,air conditioning,kitchenette"},
	}

	roomIDs := make(map[uuid.UUID][]uuid.UUID)

	for _, homestayID := range homestayIDs {
		for _, data := range roomsData {
			room := rooms.Room{
				ID:            uuid.New(),
				HomestayID:    homestayID,
				Name:          data.name,
				Type:          data.roomType,
				Capacity:      data.capacity,
				PricePerNight: data.price,
				Status:        string(rooms.StatusAvailable),
				Amenities:     data.amenities,
				CreatedAt:     time.Now(),
				UpdatedAt:     time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&room).Error; err != nil {
				return nil, fmt.Errorf("failed to create room %s: %w", room.Name, err)
			}

			roomIDs[homestayID] = append(roomIDs[homestayID], room.ID)
		}
		fmt.Printf("    ✅ Created %d rooms for homestay %s\n", len(roomsData), homestayID)
	}

	return roomIDs, nil
}

// SeedBookings creates a confirmed upcoming stay with its deposit payment.
func (s *Seeder) SeedBookings(guestID, homestayID uuid.UUID, roomIDs []uuid.UUID) error {
	fmt.Println("  📅 Seeding bookings...")

	checkIn := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 14)
	checkOut := checkIn.AddDate(0, 0, 3)

	stay := availability.NewStay(checkIn, checkOut)

	var room rooms.Room
	if err := s.db.PostgreSQL.First(&room, "id = ?", roomIDs[0]).Error; err != nil {
		return fmt.Errorf("failed to fetch room: %w", err)
	}

	nights := stay.Nights()
	total := float64(nights) * room.PricePerNight

	booking := bookings.Booking{
		ID:           uuid.New(),
		BookingCode:  "BK" + time.Now().Format("20060102150405"),
		UserID:       guestID,
		HomestayID:   homestayID,
		CheckInDate:  stay.CheckIn,
		CheckOutDate: stay.CheckOut,
		GuestCount:   2,
		GuestName:    "Minh Tran",
		GuestPhone:   "0900000003",
		GuestEmail:   "guest@homestay.local",
		Nights:       nights,
		TotalAmount:  total,
		PaidAmount:   total,
		Status:       string(bookings.StatusConfirmed),
		Notes:        "Seeded sample stay",
		Rooms: []bookings.BookingRoom{
			{
				ID:            uuid.New(),
				RoomID:        room.ID,
				RoomName:      room.Name,
				PricePerNight: room.PricePerNight,
				CreatedAt:     time.Now(),
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	fmt.Printf("    ✅ Created booking: %s (%s, %d nights)\n", booking.BookingCode, booking.Status, booking.Nights)

	payment := payments.Payment{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Amount:    total,
		Method:    payments.MethodBankTransfer,
		Status:    payments.StatusCompleted,
		Notes:     "Seeded full payment",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	fmt.Printf("    ✅ Created payment: %.2f (%s)\n", payment.Amount, payment.Method)

	return nil
}
