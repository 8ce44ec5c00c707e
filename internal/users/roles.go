package users

type Role string

const (
	// RoleGuest browses homestays and books stays.
	RoleGuest Role = "GUEST"
	// RoleHost owns homestays and manages rooms, bookings and payments.
	RoleHost Role = "HOST"
	// RoleAdmin has full access to every homestay.
	RoleAdmin Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

// CanManageHomestays reports whether the role may use the host console.
func (r Role) CanManageHomestays() bool {
	return r == RoleHost || r == RoleAdmin
}
