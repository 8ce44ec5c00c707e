package availability

import (
	"testing"

	"github.com/google/uuid"
)

func TestTotal(t *testing.T) {
	r1 := Room{ID: uuid.New(), Status: RoomAvailable, PricePerNight: 500}
	r2 := Room{ID: uuid.New(), Status: RoomAvailable, PricePerNight: 800}
	r3 := Room{ID: uuid.New(), Status: RoomAvailable, PricePerNight: 0}

	tests := []struct {
		name   string
		rooms  []Room
		nights int
		want   float64
	}{
		{"empty selection", nil, 3, 0},
		{"zero nights", []Room{r1, r2}, 0, 0},
		{"negative nights clamps to zero", []Room{r1}, -2, 0},
		{"single room", []Room{r1}, 3, 1500},
		{"multiple rooms", []Room{r1, r2}, 2, 2600},
		{"free room contributes nothing", []Room{r1, r3}, 4, 2000},
		{"duplicate room charged twice", []Room{r1, r1}, 1, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Total(tt.rooms, tt.nights); got != tt.want {
				t.Errorf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalOrderIndependent(t *testing.T) {
	rooms := []Room{
		{ID: uuid.New(), PricePerNight: 350},
		{ID: uuid.New(), PricePerNight: 720},
		{ID: uuid.New(), PricePerNight: 90},
	}
	forward := Total(rooms, 5)
	reversed := Total([]Room{rooms[2], rooms[1], rooms[0]}, 5)
	if forward != reversed {
		t.Errorf("Total() order-dependent: %v != %v", forward, reversed)
	}
	if want := (350.0 + 720.0 + 90.0) * 5; forward != want {
		t.Errorf("Total() = %v, want %v", forward, want)
	}
}
