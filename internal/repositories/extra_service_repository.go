package repositories

import (
	"context"
	"fmt"

	intdb "github.com/Hakheem/sixpoint/internal/db"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const extraServiceColumns = `e.id, e.title, e.description, e.image_url, e.price_cents, e.created_at, e.updated_at`

type ExtraServiceRepository struct {
	DB *sqlx.DB
}

// FindMany silently skips unknown ids.
func (r ExtraServiceRepository) FindMany(ctx context.Context, ids []string) ([]models.ExtraService, error) {
	services := []models.ExtraService{}
	if len(ids) == 0 {
		return services, nil
	}
	query, args, err := intdb.In(r.DB,
		`SELECT `+extraServiceColumns+` FROM extra_services e WHERE e.id IN (?) ORDER BY e.title`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build extra services query: %w", err)
	}
	if err := r.DB.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query extra services: %w", err)
	}
	return services, nil
}

func (r ExtraServiceRepository) List(ctx context.Context) ([]models.ExtraService, error) {
	services := []models.ExtraService{}
	if err := r.DB.SelectContext(ctx, &services,
		`SELECT `+extraServiceColumns+` FROM extra_services e ORDER BY e.title`); err != nil {
		return nil, fmt.Errorf("failed to list extra services: %w", err)
	}
	return services, nil
}

func (r ExtraServiceRepository) ListByRoom(ctx context.Context, roomID string) ([]models.ExtraService, error) {
	services := []models.ExtraService{}
	err := r.DB.SelectContext(ctx, &services, `
		SELECT `+extraServiceColumns+`
		FROM extra_services e
		JOIN room_extra_services res ON res.extra_service_id = e.id
		WHERE res.room_id = ?
		ORDER BY e.title`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room extra services: %w", err)
	}
	return services, nil
}
