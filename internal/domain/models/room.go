package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

type Room struct {
	ID                string       `db:"id" json:"id"`
	Title             string       `db:"title" json:"title"`
	Description       *string      `db:"description" json:"description,omitempty"`
	RoomNumber        *string      `db:"room_number" json:"roomNumber,omitempty"`
	Capacity          int          `db:"capacity" json:"capacity"`
	PricePerNight     domain.Money `db:"price_per_night_cents" json:"pricePerNight"`
	Orientation       Orientation  `db:"orientation" json:"orientation"`
	AllowPrepaid      bool         `db:"allow_prepaid" json:"allowPrepaid"`
	AllowPayOnArrival bool         `db:"allow_pay_on_arrival" json:"allowPayOnArrival"`
	TypeID            *string      `db:"type_id" json:"typeId,omitempty"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updatedAt"`
}

// RoomInput is the admin payload for create/update.
type RoomInput struct {
	Title             string       `json:"title" binding:"required"`
	Description       *string      `json:"description"`
	RoomNumber        *string      `json:"roomNumber"`
	Capacity          int          `json:"capacity" binding:"required,min=1"`
	PricePerNight     domain.Money `json:"pricePerNight" binding:"min=0"`
	Orientation       Orientation  `json:"orientation" binding:"omitempty,oneof=PORTRAIT LANDSCAPE"`
	AllowPrepaid      *bool        `json:"allowPrepaid"`
	AllowPayOnArrival *bool        `json:"allowPayOnArrival"`
	TypeID            *string      `json:"typeId"`
}

// RoomFilter mirrors the public listing query string.
type RoomFilter struct {
	MinPrice  *domain.Money
	MaxPrice  *domain.Money
	Capacity  int
	TypeID    string
	SortBy    string
	SortOrder string
}

type RoomImage struct {
	ID        string `db:"id" json:"id"`
	RoomID    string `db:"room_id" json:"roomId"`
	URL       string `db:"url" json:"url"`
	SortOrder int    `db:"sort_order" json:"sortOrder"`
}

// RatingSummary aggregates visible reviews for one room.
type RatingSummary struct {
	RoomID       string   `db:"room_id" json:"-"`
	AvgRating    *float64 `db:"avg_rating" json:"avgRating"`
	TotalReviews int      `db:"total_reviews" json:"totalReviews"`
}

// RoomWithRating is the listing row.
type RoomWithRating struct {
	Room
	Type         *RoomType   `json:"type,omitempty"`
	Images       []RoomImage `json:"images"`
	AvgRating    *float64    `json:"avgRating"`
	TotalReviews int         `json:"totalReviews"`
}

// RoomDetail is the full public room page.
type RoomDetail struct {
	RoomWithRating
	Amenities     []Amenity        `json:"amenities"`
	ExtraServices []ExtraService   `json:"extraServices"`
	Reviews       []Review         `json:"reviews"`
	SimilarRooms  []RoomWithRating `json:"similarRooms"`
}
