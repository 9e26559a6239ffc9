package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
	"github.com/Hakheem/sixpoint/internal/utils"
)

const (
	featuredRoomsLimit = 6
	similarRoomsLimit  = 4
	roomReviewsLimit   = 10
)

// CatalogService serves the public, read-only side of the site.
type CatalogService struct {
	Rooms     RoomCatalogStore
	Extras    ExtraCatalogStore
	Reviews   ReviewStore
	Catalog   CatalogStore
	RequestID string
}

func (s CatalogService) internal(action string, err error) error {
	utils.LogError(s.RequestID, "catalog", action, err)
	return domain.Internal("failed to "+action, err)
}

func (s CatalogService) ListRooms(ctx context.Context, f models.RoomFilter, p domain.Pagination) ([]models.RoomWithRating, domain.Pagination, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, p, domain.ValidationError{Field: "minPrice", Msg: "must not exceed maxPrice"}
	}
	if f.Capacity < 0 {
		return nil, p, domain.ValidationError{Field: "capacity", Msg: "must not be negative"}
	}
	rooms, total, err := s.Rooms.List(ctx, f, p)
	if err != nil {
		return nil, p, s.internal("list rooms", err)
	}
	out, err := s.enrich(ctx, rooms)
	if err != nil {
		return nil, p, err
	}
	return out, p.WithTotal(total), nil
}

func (s CatalogService) FeaturedRooms(ctx context.Context) ([]models.RoomWithRating, error) {
	rooms, err := s.Rooms.Featured(ctx, featuredRoomsLimit)
	if err != nil {
		return nil, s.internal("list featured rooms", err)
	}
	return s.enrich(ctx, rooms)
}

// enrich attaches images, rating aggregates and room types in three batched lookups.
func (s CatalogService) enrich(ctx context.Context, rooms []models.Room) ([]models.RoomWithRating, error) {
	out := make([]models.RoomWithRating, 0, len(rooms))
	if len(rooms) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(rooms))
	var typeIDs []string
	for _, r := range rooms {
		ids = append(ids, r.ID)
		if r.TypeID != nil {
			typeIDs = append(typeIDs, *r.TypeID)
		}
	}

	images, err := s.Rooms.Images(ctx, ids)
	if err != nil {
		return nil, s.internal("load room images", err)
	}
	ratings, err := s.Reviews.Summaries(ctx, ids)
	if err != nil {
		return nil, s.internal("load ratings", err)
	}
	types, err := s.Catalog.RoomTypesByID(ctx, utils.UniqueStrings(typeIDs))
	if err != nil {
		return nil, s.internal("load room types", err)
	}

	for _, r := range rooms {
		row := models.RoomWithRating{Room: r, Images: images[r.ID]}
		if row.Images == nil {
			row.Images = []models.RoomImage{}
		}
		if sum, ok := ratings[r.ID]; ok {
			row.AvgRating = sum.AvgRating
			row.TotalReviews = sum.TotalReviews
		}
		if r.TypeID != nil {
			if t, ok := types[*r.TypeID]; ok {
				row.Type = &t
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s CatalogService) RoomDetail(ctx context.Context, id string) (models.RoomDetail, error) {
	room, err := s.Rooms.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.RoomDetail{}, domain.NotFoundError{Resource: "Room", Err: err}
	}
	if err != nil {
		return models.RoomDetail{}, s.internal("load room", err)
	}
	rows, err := s.enrich(ctx, []models.Room{room})
	if err != nil {
		return models.RoomDetail{}, err
	}
	detail := models.RoomDetail{RoomWithRating: rows[0]}

	if detail.Amenities, err = s.Rooms.Amenities(ctx, id); err != nil {
		return models.RoomDetail{}, s.internal("load amenities", err)
	}
	if detail.ExtraServices, err = s.Extras.ListByRoom(ctx, id); err != nil {
		return models.RoomDetail{}, s.internal("load extra services", err)
	}
	if detail.Reviews, err = s.Reviews.VisibleByRoom(ctx, id, roomReviewsLimit); err != nil {
		return models.RoomDetail{}, s.internal("load reviews", err)
	}

	detail.SimilarRooms = []models.RoomWithRating{}
	if room.TypeID != nil {
		similar, err := s.Rooms.Similar(ctx, *room.TypeID, room.ID, similarRoomsLimit)
		if err != nil {
			return models.RoomDetail{}, s.internal("load similar rooms", err)
		}
		if detail.SimilarRooms, err = s.enrich(ctx, similar); err != nil {
			return models.RoomDetail{}, err
		}
	}
	return detail, nil
}

func (s CatalogService) RoomTypes(ctx context.Context) ([]models.RoomType, error) {
	out, err := s.Catalog.RoomTypes(ctx)
	if err != nil {
		return nil, s.internal("list room types", err)
	}
	return out, nil
}

func (s CatalogService) Amenities(ctx context.Context) ([]models.Amenity, error) {
	out, err := s.Catalog.Amenities(ctx)
	if err != nil {
		return nil, s.internal("list amenities", err)
	}
	return out, nil
}

func (s CatalogService) ExtraServices(ctx context.Context) ([]models.ExtraService, error) {
	out, err := s.Extras.List(ctx)
	if err != nil {
		return nil, s.internal("list extra services", err)
	}
	return out, nil
}

func (s CatalogService) VisitPlaces(ctx context.Context) ([]models.VisitPlace, error) {
	out, err := s.Catalog.VisitPlaces(ctx)
	if err != nil {
		return nil, s.internal("list visit places", err)
	}
	return out, nil
}

// SiteConfig falls back to the built-in defaults until an admin saves one.
func (s CatalogService) SiteConfig(ctx context.Context) (models.SiteConfig, error) {
	cfg, err := s.Catalog.LatestSiteConfig(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.DefaultSiteConfig(), nil
	}
	if err != nil {
		return models.SiteConfig{}, s.internal("load site config", err)
	}
	return cfg, nil
}

type ContactMessage struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// SubmitContact validates and logs an enquiry. Delivery is out of band.
func (s CatalogService) SubmitContact(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	msg.Name = utils.NormalizeSpace(msg.Name)
	msg.Email = utils.TrimOrEmpty(msg.Email)
	msg.Message = utils.TrimOrEmpty(msg.Message)
	msg.Subject = utils.NormalizeSpace(msg.Subject)
	if msg.Name == "" || msg.Message == "" {
		return ContactMessage{}, domain.ValidationError{Msg: "Name, email and message are required"}
	}
	if err := validate.Var(msg.Email, "required,email"); err != nil {
		return ContactMessage{}, domain.ValidationError{Field: "email", Msg: "must be a valid email address"}
	}
	if msg.Subject == "" {
		msg.Subject = "General Inquiry"
	}
	msg.ReceivedAt = utils.NowUTC()
	utils.LogEvent(s.RequestID, "contact", "submit",
		fmt.Sprintf("email=%s subject=%q", msg.Email, msg.Subject))
	return msg, nil
}
