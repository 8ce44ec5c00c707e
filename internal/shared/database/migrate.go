package database

import (
	"homestay/internal/bookings"
	"homestay/internal/homestays"
	"homestay/internal/payments"
	"homestay/internal/reviews"
	"homestay/internal/rooms"
	"homestay/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension present.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&homestays.Homestay{},
		&rooms.Room{},
		&rooms.RoomAvailability{},
		&bookings.Booking{},
		&bookings.BookingRoom{},
		&payments.Payment{},
		&reviews.Review{},
	)
}
