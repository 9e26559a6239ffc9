package services

import (
	"context"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
)

// The interfaces below are satisfied by the repositories package; tests use in-memory fakes.

type RoomStore interface {
	FindByID(ctx context.Context, id string) (models.Room, error)
	FindMany(ctx context.Context, ids []string) ([]models.Room, error)
}

type BookingStore interface {
	FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
}

type ExtraServiceStore interface {
	FindMany(ctx context.Context, ids []string) ([]models.ExtraService, error)
}

// BookingLedger is the write side of bookings.
type BookingLedger interface {
	GetByID(ctx context.Context, id string) (models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	List(ctx context.Context, status models.BookingStatus, p domain.Pagination) ([]models.Booking, int, error)
	Reserve(ctx context.Context, b models.Booking, rooms []models.RoomPriceLine, extras []models.ExtraServiceLine) error
	UpdateStatus(ctx context.Context, b models.Booking, status models.BookingStatus) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) error
	UpdateProfile(ctx context.Context, id string, name, phone *string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
}

type UserAdminStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, f models.UserFilter, p domain.Pagination) ([]models.User, int, error)
	Recent(ctx context.Context, limit int) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type RoomCatalogStore interface {
	FindByID(ctx context.Context, id string) (models.Room, error)
	List(ctx context.Context, f models.RoomFilter, p domain.Pagination) ([]models.Room, int, error)
	Featured(ctx context.Context, limit int) ([]models.Room, error)
	Similar(ctx context.Context, typeID, excludeID string, limit int) ([]models.Room, error)
	Images(ctx context.Context, roomIDs []string) (map[string][]models.RoomImage, error)
	Amenities(ctx context.Context, roomID string) ([]models.Amenity, error)
}

type RoomAdminStore interface {
	FindByID(ctx context.Context, id string) (models.Room, error)
	Create(ctx context.Context, room models.Room) error
	Update(ctx context.Context, room models.Room) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ExtraCatalogStore interface {
	List(ctx context.Context) ([]models.ExtraService, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.ExtraService, error)
}

type ReviewStore interface {
	VisibleByRoom(ctx context.Context, roomID string, limit int) ([]models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	Summaries(ctx context.Context, roomIDs []string) (map[string]models.RatingSummary, error)
	Create(ctx context.Context, v models.Review) error
	SetHidden(ctx context.Context, id string, hidden bool) error
}

type CatalogStore interface {
	RoomTypes(ctx context.Context) ([]models.RoomType, error)
	RoomTypesByID(ctx context.Context, ids []string) (map[string]models.RoomType, error)
	Amenities(ctx context.Context) ([]models.Amenity, error)
	VisitPlaces(ctx context.Context) ([]models.VisitPlace, error)
	LatestSiteConfig(ctx context.Context) (models.SiteConfig, error)
	InsertSiteConfig(ctx context.Context, cfg models.SiteConfig) error
}

// BookingSnapshots reads the lines frozen on a booking when it was reserved.
type BookingSnapshots interface {
	SnapshotLines(ctx context.Context, b models.Booking) (models.PriceLines, error)
}

// BookingStats backs the admin dashboard and delete guards.
type BookingStats interface {
	Count(ctx context.Context) (int, error)
	Revenue(ctx context.Context, statuses []models.BookingStatus) (domain.Money, error)
	Recent(ctx context.Context, limit int) ([]models.Booking, error)
	CountActiveForRoom(ctx context.Context, roomID string) (int, error)
	CountActiveForUser(ctx context.Context, userID string) (int, error)
}

type VerificationStore interface {
	Create(ctx context.Context, v models.Verification) error
	Consume(ctx context.Context, tokenHash string, purpose models.VerificationPurpose, now time.Time) (models.Verification, error)
}
