package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "github.com/Hakheem/sixpoint/internal/db"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

// CatalogRepository serves the read-mostly marketing tables.
type CatalogRepository struct {
	DB *sqlx.DB
}

func (r CatalogRepository) RoomTypes(ctx context.Context) ([]models.RoomType, error) {
	types := []models.RoomType{}
	err := r.DB.SelectContext(ctx, &types, `
		SELECT t.id, t.name, t.description, t.created_at, COUNT(r.id) AS room_count
		FROM room_types t
		LEFT JOIN rooms r ON r.type_id = t.id
		GROUP BY t.id, t.name, t.description, t.created_at
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}

func (r CatalogRepository) RoomTypesByID(ctx context.Context, ids []string) (map[string]models.RoomType, error) {
	out := map[string]models.RoomType{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := intdb.In(r.DB,
		`SELECT id, name, description, created_at FROM room_types WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build room types query: %w", err)
	}
	var types []models.RoomType
	if err := r.DB.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query room types: %w", err)
	}
	for _, t := range types {
		out[t.ID] = t
	}
	return out, nil
}

func (r CatalogRepository) Amenities(ctx context.Context) ([]models.Amenity, error) {
	amenities := []models.Amenity{}
	if err := r.DB.SelectContext(ctx, &amenities,
		`SELECT id, name, description, icon_name, created_at FROM amenities ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list amenities: %w", err)
	}
	return amenities, nil
}

func (r CatalogRepository) VisitPlaces(ctx context.Context) ([]models.VisitPlace, error) {
	places := []models.VisitPlace{}
	if err := r.DB.SelectContext(ctx, &places,
		`SELECT id, title, description, image_url, created_at FROM visit_places ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list visit places: %w", err)
	}
	return places, nil
}

const siteConfigColumns = `id, logo_url, hero_image_url, hero_main_heading, hero_highlighted_text, hero_description,
	phone1, phone2, location, facebook, instagram, tiktok, youtube, twitter, created_at`

// LatestSiteConfig returns ErrNotFound when no row exists.
func (r CatalogRepository) LatestSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := r.DB.GetContext(ctx, &cfg,
		`SELECT `+siteConfigColumns+` FROM site_configs ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SiteConfig{}, ErrNotFound
	}
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to get site config: %w", err)
	}
	return cfg, nil
}

func (r CatalogRepository) InsertSiteConfig(ctx context.Context, cfg models.SiteConfig) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO site_configs (`+siteConfigColumns+`)
		VALUES (:id, :logo_url, :hero_image_url, :hero_main_heading, :hero_highlighted_text, :hero_description,
			:phone1, :phone2, :location, :facebook, :instagram, :tiktok, :youtube, :twitter, :created_at)`, cfg)
	if err != nil {
		return fmt.Errorf("failed to insert site config: %w", err)
	}
	return nil
}
