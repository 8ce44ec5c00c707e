package rooms

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"homestay/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rooms    map[uuid.UUID]*Room
	owners   map[uuid.UUID]uuid.UUID
	existing []availability.Booking
	calendar map[uuid.UUID]*RoomAvailability
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms:    make(map[uuid.UUID]*Room),
		owners:   make(map[uuid.UUID]uuid.UUID),
		calendar: make(map[uuid.UUID]*RoomAvailability),
	}
}

func (f *fakeRepo) Create(_ context.Context, room *Room) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]Room, error) {
	var out []Room
	for _, id := range ids {
		if room, ok := f.rooms[id]; ok {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByHomestay(_ context.Context, homestayID uuid.UUID, filters ListFilters) ([]Room, error) {
	var out []Room
	for _, room := range f.rooms {
		if room.HomestayID != homestayID {
			continue
		}
		if filters.Status != "" && room.Status != filters.Status {
			continue
		}
		if filters.GuestCount > 0 && room.Capacity < filters.GuestCount {
			continue
		}
		out = append(out, *room)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	room, ok := f.rooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(string); ok {
		room.Status = status
	}
	if name, ok := updates["name"].(string); ok {
		room.Name = name
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRepo) GetHomestayOwner(_ context.Context, homestayID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.owners[homestayID]
	if !ok {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return owner, nil
}

func (f *fakeRepo) GetBlockingBookings(_ context.Context, roomIDs []uuid.UUID, _ availability.Stay) ([]availability.Booking, error) {
	var out []availability.Booking
	for _, b := range f.existing {
		if !b.Status.Blocks() {
			continue
		}
		for _, roomID := range roomIDs {
			if containsID(b.RoomIDs, roomID) {
				out = append(out, b)
				break
			}
		}
	}
	for _, entry := range f.calendar {
		if entry.Status != string(DayBlocked) || !containsID(roomIDs, entry.RoomID) {
			continue
		}
		out = append(out, availability.Booking{
			ID:      entry.ID,
			RoomIDs: []uuid.UUID{entry.RoomID},
			Stay:    availability.NewStay(entry.Date, entry.Date.AddDate(0, 0, 1)),
			Status:  availability.BookingConfirmed,
		})
	}
	return out, nil
}

func (f *fakeRepo) UpsertAvailability(_ context.Context, entries []RoomAvailability) error {
	for i := range entries {
		incoming := entries[i]
		replaced := false
		for _, existing := range f.calendar {
			if existing.RoomID == incoming.RoomID && existing.Date.Equal(incoming.Date) {
				existing.Status = incoming.Status
				existing.Price = incoming.Price
				replaced = true
				break
			}
		}
		if !replaced {
			copied := incoming
			f.calendar[copied.ID] = &copied
		}
	}
	return nil
}

func (f *fakeRepo) ListAvailability(_ context.Context, roomID uuid.UUID, from, to time.Time) ([]RoomAvailability, error) {
	var out []RoomAvailability
	for _, entry := range f.calendar {
		if entry.RoomID != roomID {
			continue
		}
		if !from.IsZero() && entry.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !entry.Date.Before(to) {
			continue
		}
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeRepo) GetAvailabilityByID(_ context.Context, id uuid.UUID) (*RoomAvailability, error) {
	entry, ok := f.calendar[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRepo) UpdateAvailability(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	entry, ok := f.calendar[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(string); ok {
		entry.Status = status
	}
	if price, ok := updates["price"].(float64); ok {
		entry.Price = &price
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func date(daysFromNow int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysFromNow)
}

func seedRoom(repo *fakeRepo, homestayID uuid.UUID, status string, capacity int) *Room {
	room := &Room{
		ID:            uuid.New(),
		HomestayID:    homestayID,
		Name:          "Room " + uuid.NewString()[:8],
		Type:          "standard",
		Capacity:      capacity,
		PricePerNight: 60,
		Status:        status,
	}
	repo.rooms[room.ID] = room
	return room
}

func TestCheckAvailabilityVerdicts(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	bookingID := uuid.New()

	repo := newFakeRepo()
	open := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	closed := seedRoom(repo, homestayID, string(StatusMaintenance), 2)
	repo.existing = []availability.Booking{
		{
			ID:      bookingID,
			RoomIDs: []uuid.UUID{open.ID},
			Stay:    availability.NewStay(date(10), date(13)),
			Status:  availability.BookingConfirmed,
		},
	}

	svc := NewService(repo, nil, 0)

	tests := []struct {
		name         string
		roomID       uuid.UUID
		checkIn      string
		checkOut     string
		wantVerdict  string
		wantBookable bool
		wantConflict bool
	}{
		{
			name:        "closed room wins over dates",
			roomID:      closed.ID,
			checkIn:     date(10).Format("2006-01-02"),
			checkOut:    date(12).Format("2006-01-02"),
			wantVerdict: "room_closed",
		},
		{
			name:         "no dates is unconstrained",
			roomID:       open.ID,
			wantVerdict:  "unconstrained",
			wantBookable: true,
		},
		{
			name:         "single date is unconstrained",
			roomID:       open.ID,
			checkIn:      date(10).Format("2006-01-02"),
			wantVerdict:  "unconstrained",
			wantBookable: true,
		},
		{
			name:         "overlapping stay conflicts",
			roomID:       open.ID,
			checkIn:      date(12).Format("2006-01-02"),
			checkOut:     date(14).Format("2006-01-02"),
			wantVerdict:  "conflicting",
			wantConflict: true,
		},
		{
			name:         "back to back stay is available",
			roomID:       open.ID,
			checkIn:      date(13).Format("2006-01-02"),
			checkOut:     date(15).Format("2006-01-02"),
			wantVerdict:  "available",
			wantBookable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CheckAvailability(ctx, tt.roomID.String(), tt.checkIn, tt.checkOut)
			if err != nil {
				t.Fatalf("CheckAvailability: %v", err)
			}
			if resp.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %q, want %q", resp.Verdict, tt.wantVerdict)
			}
			if resp.Available != tt.wantBookable {
				t.Errorf("available = %v, want %v", resp.Available, tt.wantBookable)
			}
			if tt.wantConflict {
				if resp.ConflictingBookingID == nil || *resp.ConflictingBookingID != bookingID {
					t.Errorf("conflicting booking id = %v, want %v", resp.ConflictingBookingID, bookingID)
				}
			} else if resp.ConflictingBookingID != nil {
				t.Errorf("unexpected conflicting booking id %v", *resp.ConflictingBookingID)
			}
		})
	}
}

func TestCheckAvailabilityInvalidRange(t *testing.T) {
	repo := newFakeRepo()
	room := seedRoom(repo, uuid.New(), string(StatusAvailable), 2)
	svc := NewService(repo, nil, 0)

	_, err := svc.CheckAvailability(context.Background(), room.ID.String(),
		date(12).Format("2006-01-02"), date(10).Format("2006-01-02"))
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestCheckAvailabilityCancelledBookingIgnored(t *testing.T) {
	homestayID := uuid.New()
	repo := newFakeRepo()
	room := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	repo.existing = []availability.Booking{
		{
			ID:      uuid.New(),
			RoomIDs: []uuid.UUID{room.ID},
			Stay:    availability.NewStay(date(10), date(13)),
			Status:  availability.BookingCancelled,
		},
	}
	svc := NewService(repo, nil, 0)

	resp, err := svc.CheckAvailability(context.Background(), room.ID.String(),
		date(11).Format("2006-01-02"), date(12).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if resp.Verdict != "available" {
		t.Errorf("verdict = %q, want %q", resp.Verdict, "available")
	}
}

func TestListAnnotatesAvailabilityForDatedRequests(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()

	repo := newFakeRepo()
	booked := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	free := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	repo.existing = []availability.Booking{
		{
			ID:      uuid.New(),
			RoomIDs: []uuid.UUID{booked.ID},
			Stay:    availability.NewStay(date(5), date(8)),
			Status:  availability.BookingPending,
		},
	}

	svc := NewService(repo, nil, 0)

	out, err := svc.List(ctx, homestayID.String(), ListFilters{
		CheckIn:  date(6).Format("2006-01-02"),
		CheckOut: date(7).Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	got := make(map[uuid.UUID]bool, len(out))
	for _, resp := range out {
		if resp.IsAvailable == nil {
			t.Fatalf("room %s missing availability annotation", resp.ID)
		}
		got[resp.ID] = *resp.IsAvailable
	}
	if got[booked.ID] {
		t.Errorf("room with pending booking reported available")
	}
	if !got[free.ID] {
		t.Errorf("free room reported unavailable")
	}
}

func TestListWithoutDatesHasNoAnnotation(t *testing.T) {
	homestayID := uuid.New()
	repo := newFakeRepo()
	seedRoom(repo, homestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	out, err := svc.List(context.Background(), homestayID.String(), ListFilters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].IsAvailable != nil {
		t.Errorf("dateless listing should not carry an availability flag")
	}
}

func TestAvailableRoomCount(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()

	repo := newFakeRepo()
	booked := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	seedRoom(repo, homestayID, string(StatusAvailable), 2)
	seedRoom(repo, homestayID, string(StatusMaintenance), 2)
	seedRoom(repo, homestayID, string(StatusAvailable), 1)
	repo.existing = []availability.Booking{
		{
			ID:      uuid.New(),
			RoomIDs: []uuid.UUID{booked.ID},
			Stay:    availability.NewStay(date(5), date(8)),
			Status:  availability.BookingConfirmed,
		},
	}

	svc := NewService(repo, nil, 0)

	// Two guests for an overlapping range: the maintenance room and the
	// single-capacity room are filtered out, the booked room conflicts.
	count, err := svc.AvailableRoomCount(ctx, homestayID, availability.NewStay(date(6), date(9)), 2)
	if err != nil {
		t.Fatalf("AvailableRoomCount: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetRoomsForBooking(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	otherHomestayID := uuid.New()

	repo := newFakeRepo()
	mine := seedRoom(repo, homestayID, string(StatusAvailable), 2)
	foreign := seedRoom(repo, otherHomestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	out, err := svc.GetRoomsForBooking(ctx, homestayID, []uuid.UUID{mine.ID})
	if err != nil {
		t.Fatalf("GetRoomsForBooking: %v", err)
	}
	if len(out) != 1 || out[0].ID != mine.ID {
		t.Fatalf("unexpected rooms %v", out)
	}

	if _, err := svc.GetRoomsForBooking(ctx, homestayID, []uuid.UUID{foreign.ID}); !errors.Is(err, ErrRoomMismatch) {
		t.Errorf("foreign room: err = %v, want ErrRoomMismatch", err)
	}
	if _, err := svc.GetRoomsForBooking(ctx, homestayID, []uuid.UUID{uuid.New()}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("missing room: err = %v, want ErrRoomNotFound", err)
	}
}

func TestCreateRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo := newFakeRepo()
	repo.owners[homestayID] = ownerID

	svc := NewService(repo, nil, 0)
	req := CreateRoomRequest{Name: "Garden Room", Capacity: 2, PricePerNight: 50}

	if _, err := svc.Create(ctx, homestayID.String(), strangerID, false, req); !errors.Is(err, ErrNotOwner) {
		t.Errorf("stranger: err = %v, want ErrNotOwner", err)
	}

	room, err := svc.Create(ctx, homestayID.String(), ownerID, false, req)
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if room.Type != "standard" {
		t.Errorf("default type = %q, want standard", room.Type)
	}
	if room.Status != string(StatusAvailable) {
		t.Errorf("status = %q, want available", room.Status)
	}

	// Admin bypasses the ownership check.
	if _, err := svc.Create(ctx, homestayID.String(), strangerID, true, req); err != nil {
		t.Errorf("admin create: %v", err)
	}
}

func TestBlockedDaysConflictLikeBookings(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	ownerID := uuid.New()

	repo := newFakeRepo()
	repo.owners[homestayID] = ownerID
	room := seedRoom(repo, homestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	entries, err := svc.SetAvailability(ctx, room.ID.String(), ownerID, false, SetAvailabilityRequest{
		StartDate: date(5).Format("2006-01-02"),
		EndDate:   date(7).Format("2006-01-02"),
		Status:    string(DayBlocked),
	})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	resp, err := svc.CheckAvailability(ctx, room.ID.String(),
		date(6).Format("2006-01-02"), date(8).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if resp.Verdict != "conflicting" {
		t.Errorf("verdict = %q, want conflicting", resp.Verdict)
	}
	if resp.ConflictingBookingID == nil {
		t.Errorf("blocked day should surface as the conflicting interval")
	}

	// The nights after the block stay open.
	resp, err = svc.CheckAvailability(ctx, room.ID.String(),
		date(7).Format("2006-01-02"), date(9).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if resp.Verdict != "available" {
		t.Errorf("verdict = %q, want available", resp.Verdict)
	}
}

func TestPriceOverrideDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	ownerID := uuid.New()

	repo := newFakeRepo()
	repo.owners[homestayID] = ownerID
	room := seedRoom(repo, homestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	price := 95.0
	entries, err := svc.SetAvailability(ctx, room.ID.String(), ownerID, false, SetAvailabilityRequest{
		StartDate: date(5).Format("2006-01-02"),
		EndDate:   date(6).Format("2006-01-02"),
		Status:    string(DayAvailable),
		Price:     &price,
	})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if len(entries) != 1 || entries[0].Price == nil || *entries[0].Price != price {
		t.Fatalf("price override not stored: %+v", entries)
	}

	resp, err := svc.CheckAvailability(ctx, room.ID.String(),
		date(5).Format("2006-01-02"), date(6).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if resp.Verdict != "available" {
		t.Errorf("verdict = %q, want available", resp.Verdict)
	}
}

func TestSetAvailabilityRejectsPastAndForeign(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo := newFakeRepo()
	repo.owners[homestayID] = ownerID
	room := seedRoom(repo, homestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	_, err := svc.SetAvailability(ctx, room.ID.String(), ownerID, false, SetAvailabilityRequest{
		StartDate: date(-3).Format("2006-01-02"),
		EndDate:   date(-1).Format("2006-01-02"),
		Status:    string(DayBlocked),
	})
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("past range: err = %v, want ErrPastDate", err)
	}

	_, err = svc.SetAvailability(ctx, room.ID.String(), strangerID, false, SetAvailabilityRequest{
		StartDate: date(5).Format("2006-01-02"),
		EndDate:   date(6).Format("2006-01-02"),
		Status:    string(DayBlocked),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("stranger: err = %v, want ErrNotOwner", err)
	}

	_, err = svc.SetAvailability(ctx, room.ID.String(), ownerID, false, SetAvailabilityRequest{
		StartDate: date(6).Format("2006-01-02"),
		EndDate:   date(5).Format("2006-01-02"),
		Status:    string(DayBlocked),
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range: err = %v, want ErrInvalidDateRange", err)
	}
}

func TestUpdateAvailabilityReopensDay(t *testing.T) {
	ctx := context.Background()
	homestayID := uuid.New()
	ownerID := uuid.New()

	repo := newFakeRepo()
	repo.owners[homestayID] = ownerID
	room := seedRoom(repo, homestayID, string(StatusAvailable), 2)

	svc := NewService(repo, nil, 0)

	entries, err := svc.SetAvailability(ctx, room.ID.String(), ownerID, false, SetAvailabilityRequest{
		StartDate: date(5).Format("2006-01-02"),
		EndDate:   date(6).Format("2006-01-02"),
		Status:    string(DayBlocked),
	})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}

	status := string(DayAvailable)
	updated, err := svc.UpdateAvailability(ctx, entries[0].ID.String(), ownerID, false, UpdateAvailabilityRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("UpdateAvailability: %v", err)
	}
	if updated.Status != string(DayAvailable) {
		t.Errorf("status = %q, want available", updated.Status)
	}

	resp, err := svc.CheckAvailability(ctx, room.ID.String(),
		date(5).Format("2006-01-02"), date(6).Format("2006-01-02"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if resp.Verdict != "available" {
		t.Errorf("verdict = %q, want available after reopening", resp.Verdict)
	}

	if _, err := svc.UpdateAvailability(ctx, uuid.NewString(), ownerID, false, UpdateAvailabilityRequest{Status: &status}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("missing entry: err = %v, want ErrEntryNotFound", err)
	}
}
