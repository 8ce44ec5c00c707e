package rooms

// Status is a room's base operational state. Only "available" rooms are
// considered for bookings; date checks happen on top of this gate.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// DayStatus is the state of one calendar entry. Booked days are derived from
// bookings rather than stored, so only these two values persist.
type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayBlocked   DayStatus = "blocked"
)

func (s DayStatus) IsValid() bool {
	return s == DayAvailable || s == DayBlocked
}
