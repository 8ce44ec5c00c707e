package cache

// Key prefixes shared by the services that cache reads and the writers that
// invalidate them.
const (
	KeyHomestay        = "homestay:detail:"
	KeyHomestayTop     = "homestay:top"
	KeyRoomList        = "room:list:"
	KeyHomestayPattern = "homestay:*"
	KeyRoomPattern     = "room:*"
)
