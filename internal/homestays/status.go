package homestays

type Status string

const (
	// StatusPending is a freshly created listing awaiting host activation.
	StatusPending Status = "pending"
	// StatusActive is publicly listed and bookable.
	StatusActive Status = "active"
	// StatusInactive is hidden from guests but kept for the host.
	StatusInactive Status = "inactive"
)

// IsValid checks if the homestay status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Toggled flips between active and inactive; pending activates.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}
