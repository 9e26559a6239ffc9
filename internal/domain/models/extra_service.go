package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

// ExtraService is a flat-priced add-on, charged once per booking.
type ExtraService struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description,omitempty"`
	ImageURL    *string      `db:"image_url" json:"imageUrl,omitempty"`
	Price       domain.Money `db:"price_cents" json:"price"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}
