package homestays

import (
	"context"
	"errors"
	"testing"
	"time"

	"homestay/internal/availability"

	"github.com/google/uuid"
)

type fakeSearchRepo struct {
	Repository
	active []HomestayResponse
}

func (f *fakeSearchRepo) Search(_ context.Context, filters SearchFilters) (*PaginatedHomestays, error) {
	start := (filters.Page - 1) * filters.PageSize
	end := start + filters.PageSize
	if start > len(f.active) {
		start = len(f.active)
	}
	if end > len(f.active) {
		end = len(f.active)
	}
	return &PaginatedHomestays{
		Homestays: f.active[start:end],
		Total:     int64(len(f.active)),
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	}, nil
}

func (f *fakeSearchRepo) SearchAll(_ context.Context, _ SearchFilters) ([]HomestayResponse, error) {
	return f.active, nil
}

// fakeChecker marks a fixed set of homestays as fully booked.
type fakeChecker struct {
	booked map[uuid.UUID]bool
}

func (f *fakeChecker) AvailableRoomCount(_ context.Context, homestayID uuid.UUID, _ availability.Stay, _ int) (int, error) {
	if f.booked[homestayID] {
		return 0, nil
	}
	return 1, nil
}

func searchDate(daysFromNow int) string {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func TestSearchPublicDatedPaginatesAfterAvailabilityFilter(t *testing.T) {
	ctx := context.Background()

	// Five active homestays; every second one is fully booked, leaving three.
	repo := &fakeSearchRepo{}
	checker := &fakeChecker{booked: map[uuid.UUID]bool{}}
	var freeIDs []uuid.UUID
	for i := 0; i < 5; i++ {
		h := HomestayResponse{ID: uuid.New(), Status: string(StatusActive)}
		repo.active = append(repo.active, h)
		if i%2 == 1 {
			checker.booked[h.ID] = true
		} else {
			freeIDs = append(freeIDs, h.ID)
		}
	}

	svc := NewService(repo, nil, 0)
	svc.SetAvailabilityChecker(checker)

	filters := SearchFilters{
		CheckIn:  searchDate(5),
		CheckOut: searchDate(8),
		Page:     1,
		PageSize: 2,
	}

	page1, err := svc.SearchPublic(ctx, filters)
	if err != nil {
		t.Fatalf("SearchPublic page 1: %v", err)
	}
	if page1.Total != 3 {
		t.Errorf("page 1 total = %d, want 3", page1.Total)
	}
	if len(page1.Homestays) != 2 {
		t.Fatalf("page 1 len = %d, want 2", len(page1.Homestays))
	}
	if page1.Homestays[0].ID != freeIDs[0] || page1.Homestays[1].ID != freeIDs[1] {
		t.Errorf("page 1 returned booked homestays: %v", page1.Homestays)
	}

	filters.Page = 2
	page2, err := svc.SearchPublic(ctx, filters)
	if err != nil {
		t.Fatalf("SearchPublic page 2: %v", err)
	}
	if page2.Total != 3 {
		t.Errorf("page 2 total = %d, want 3", page2.Total)
	}
	if len(page2.Homestays) != 1 || page2.Homestays[0].ID != freeIDs[2] {
		t.Fatalf("page 2 = %v, want the last free homestay", page2.Homestays)
	}

	// Past the end of the filtered set the page is empty but Total holds.
	filters.Page = 4
	page4, err := svc.SearchPublic(ctx, filters)
	if err != nil {
		t.Fatalf("SearchPublic page 4: %v", err)
	}
	if page4.Total != 3 || len(page4.Homestays) != 0 {
		t.Errorf("page 4 = total %d len %d, want total 3 len 0", page4.Total, len(page4.Homestays))
	}
}

func TestSearchPublicDatelessUsesRepoPagination(t *testing.T) {
	repo := &fakeSearchRepo{}
	for i := 0; i < 3; i++ {
		repo.active = append(repo.active, HomestayResponse{ID: uuid.New(), Status: string(StatusActive)})
	}

	svc := NewService(repo, nil, 0)
	svc.SetAvailabilityChecker(&fakeChecker{booked: map[uuid.UUID]bool{}})

	out, err := svc.SearchPublic(context.Background(), SearchFilters{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("SearchPublic: %v", err)
	}
	if out.Total != 3 || len(out.Homestays) != 2 {
		t.Errorf("total %d len %d, want total 3 len 2", out.Total, len(out.Homestays))
	}
}

func TestSearchPublicInvalidRange(t *testing.T) {
	svc := NewService(&fakeSearchRepo{}, nil, 0)
	svc.SetAvailabilityChecker(&fakeChecker{booked: map[uuid.UUID]bool{}})

	_, err := svc.SearchPublic(context.Background(), SearchFilters{
		CheckIn:  searchDate(8),
		CheckOut: searchDate(5),
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}
