package services

import (
	"context"
	"testing"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
)

func strp(s string) *string { return &s }

func catalogFixture() (CatalogService, *fakeReviews, *fakeCatalog) {
	deluxe := strp("deluxe")
	rooms := newFakeRooms(
		models.Room{ID: "r1", Title: "Deluxe 1", Capacity: 2, PricePerNight: 10000, TypeID: deluxe},
		models.Room{ID: "r2", Title: "Deluxe 2", Capacity: 4, PricePerNight: 12000, TypeID: deluxe},
		models.Room{ID: "r3", Title: "Single", Capacity: 1, PricePerNight: 5000},
	)
	reviews := newFakeReviews()
	avg := 4.5
	reviews.summaries["r1"] = models.RatingSummary{RoomID: "r1", AvgRating: &avg, TotalReviews: 2}
	reviews.reviews["v1"] = models.Review{ID: "v1", RoomID: "r1", Rating: 5}
	reviews.reviews["v2"] = models.Review{ID: "v2", RoomID: "r1", Rating: 4, Hidden: true}
	catalog := &fakeCatalog{types: map[string]models.RoomType{"deluxe": {ID: "deluxe", Name: "Deluxe"}}}
	return CatalogService{
		Rooms:   rooms,
		Extras:  newFakeExtras(models.ExtraService{ID: "s", Title: "Spa"}),
		Reviews: reviews,
		Catalog: catalog,
	}, reviews, catalog
}

func TestListRoomsEnrichesAndPaginates(t *testing.T) {
	svc, _, _ := catalogFixture()
	rows, page, err := svc.ListRooms(context.Background(), models.RoomFilter{Capacity: 2}, domain.NewPagination(1, 1, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 || page.Pages != 2 || len(rows) != 1 {
		t.Fatalf("rows=%d page=%+v", len(rows), page)
	}
	r := rows[0]
	if r.ID != "r1" || r.AvgRating == nil || *r.AvgRating != 4.5 || r.TotalReviews != 2 {
		t.Fatalf("rating not attached: %+v", r)
	}
	if r.Type == nil || r.Type.Name != "Deluxe" || len(r.Images) != 1 {
		t.Fatalf("type/images not attached: %+v", r)
	}

	minP, maxP := domain.Money(500), domain.Money(100)
	if _, _, err := svc.ListRooms(context.Background(), models.RoomFilter{MinPrice: &minP, MaxPrice: &maxP}, domain.NewPagination(1, 10, 12)); !domain.IsValidation(err) {
		t.Fatalf("inverted price filter: expected validation, got %v", err)
	}
}

func TestRoomDetail(t *testing.T) {
	svc, _, _ := catalogFixture()
	d, err := svc.RoomDetail(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Reviews) != 1 || d.Reviews[0].ID != "v1" {
		t.Fatalf("hidden reviews leaked: %+v", d.Reviews)
	}
	if len(d.SimilarRooms) != 1 || d.SimilarRooms[0].ID != "r2" {
		t.Fatalf("similar=%+v", d.SimilarRooms)
	}
	if len(d.Amenities) == 0 || len(d.ExtraServices) != 1 {
		t.Fatalf("relations missing: %+v", d)
	}

	single, err := svc.RoomDetail(context.Background(), "r3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single.SimilarRooms == nil || len(single.SimilarRooms) != 0 || single.AvgRating != nil {
		t.Fatalf("untyped room detail: %+v", single)
	}

	_, err = svc.RoomDetail(context.Background(), "ghost")
	if !domain.IsNotFound(err) || err.Error() != "Room not found" {
		t.Fatalf("expected Room not found, got %v", err)
	}
}

func TestSiteConfigFallsBackToDefaults(t *testing.T) {
	svc, _, catalog := catalogFixture()
	cfg, err := svc.SiteConfig(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HeroMainHeading == nil || *cfg.HeroMainHeading != "Welcome to Sixpoint Victoria" {
		t.Fatalf("expected default config, got %+v", cfg)
	}

	catalog.configs = append(catalog.configs, models.SiteConfig{ID: "c1", Location: strp("Nairobi")})
	cfg, err = svc.SiteConfig(context.Background())
	if err != nil || cfg.ID != "c1" {
		t.Fatalf("expected stored config, got %+v err=%v", cfg, err)
	}
}

func TestSubmitContact(t *testing.T) {
	svc, _, _ := catalogFixture()
	got, err := svc.SubmitContact(context.Background(), ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subject != "General Inquiry" || got.ReceivedAt.IsZero() {
		t.Fatalf("unexpected receipt: %+v", got)
	}
	if _, err := svc.SubmitContact(context.Background(), ContactMessage{Name: "Ann", Email: "nope", Message: "Hi"}); !domain.IsValidation(err) {
		t.Fatalf("bad email: expected validation, got %v", err)
	}
	if _, err := svc.SubmitContact(context.Background(), ContactMessage{Email: "ann@example.com"}); !domain.IsValidation(err) {
		t.Fatalf("missing fields: expected validation, got %v", err)
	}
}
