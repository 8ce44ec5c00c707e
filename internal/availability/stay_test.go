package availability

import (
	"testing"
	"time"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"one night", date(2024, 6, 1), date(2024, 6, 2), 1},
		{"four nights", date(2024, 6, 1), date(2024, 6, 5), 4},
		{"same day is zero", date(2024, 6, 1), date(2024, 6, 1), 0},
		{"inverted is zero", date(2024, 6, 5), date(2024, 6, 1), 0},
		{"missing check-in is zero", time.Time{}, date(2024, 6, 5), 0},
		{"missing check-out is zero", date(2024, 6, 1), time.Time{}, 0},
		{"both missing is zero", time.Time{}, time.Time{}, 0},
		{"across month boundary", date(2024, 6, 28), date(2024, 7, 2), 4},
		{"across year boundary", date(2024, 12, 30), date(2025, 1, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNightsIgnoresTimeOfDay(t *testing.T) {
	// Dates carrying stray time-of-day (e.g. parsed as date-times in some
	// timezone) must still count whole calendar days.
	in := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	out := time.Date(2024, 6, 3, 0, 15, 0, 0, time.UTC)
	if got := Nights(in, out); got != 2 {
		t.Errorf("Nights() = %d, want 2", got)
	}
}

func TestNewStayTruncates(t *testing.T) {
	s := NewStay(
		time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 5, 11, 0, 0, 0, time.UTC),
	)
	if !s.CheckIn.Equal(date(2024, 6, 1)) || !s.CheckOut.Equal(date(2024, 6, 5)) {
		t.Errorf("NewStay() = %+v, want midnight dates", s)
	}
	if s.Nights() != 4 {
		t.Errorf("Nights() = %d, want 4", s.Nights())
	}
}

func TestStayValidity(t *testing.T) {
	valid := stay(date(2024, 6, 1), date(2024, 6, 5))
	if !valid.IsValid() || valid.IsZero() {
		t.Error("valid stay misreported")
	}

	sameDay := stay(date(2024, 6, 1), date(2024, 6, 1))
	if sameDay.IsValid() {
		t.Error("zero-night stay reported valid")
	}

	inverted := stay(date(2024, 6, 5), date(2024, 6, 1))
	if inverted.IsValid() {
		t.Error("inverted stay reported valid")
	}

	half := Stay{CheckIn: date(2024, 6, 1)}
	if !half.IsZero() || half.IsValid() {
		t.Error("half-set stay misreported")
	}
}

func TestStayContains(t *testing.T) {
	s := stay(date(2024, 6, 1), date(2024, 6, 5))

	if !s.Contains(date(2024, 6, 1)) {
		t.Error("check-in day not contained")
	}
	if !s.Contains(date(2024, 6, 4)) {
		t.Error("last night not contained")
	}
	if s.Contains(date(2024, 6, 5)) {
		t.Error("checkout day contained; half-open range includes it")
	}
	if s.Contains(date(2024, 5, 31)) {
		t.Error("day before check-in contained")
	}
}
