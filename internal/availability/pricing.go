package availability

// Total sums price-per-night times nights across the selected rooms.
// Amounts are whole currency units, so plain float64 addition is exact.
// An empty selection or a non-positive night count totals 0. The selection
// is expected to be deduplicated by room id upstream; a room passed twice is
// charged twice.
func Total(rooms []Room, nights int) float64 {
	if nights <= 0 {
		return 0
	}
	var total float64
	for _, room := range rooms {
		total += room.PricePerNight * float64(nights)
	}
	return total
}
