package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

type RoomType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	RoomCount   int       `db:"room_count" json:"roomCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Amenity struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IconName    *string   `db:"icon_name" json:"iconName,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type VisitPlace struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// SiteConfig holds the marketing-site settings; the newest row wins.
type SiteConfig struct {
	ID                  string     `db:"id" json:"id,omitempty"`
	LogoURL             *string    `db:"logo_url" json:"logoUrl"`
	HeroImageURL        *string    `db:"hero_image_url" json:"heroImageUrl"`
	HeroMainHeading     *string    `db:"hero_main_heading" json:"heroMainHeading"`
	HeroHighlightedText *string    `db:"hero_highlighted_text" json:"heroHighlightedText"`
	HeroDescription     *string    `db:"hero_description" json:"heroDescription"`
	Phone1              *string    `db:"phone1" json:"phone1"`
	Phone2              *string    `db:"phone2" json:"phone2"`
	Location            *string    `db:"location" json:"location"`
	Facebook            *string    `db:"facebook" json:"facebook"`
	Instagram           *string    `db:"instagram" json:"instagram"`
	TikTok              *string    `db:"tiktok" json:"tiktok"`
	YouTube             *string    `db:"youtube" json:"youtube"`
	Twitter             *string    `db:"twitter" json:"twitter"`
	CreatedAt           *time.Time `db:"created_at" json:"createdAt,omitempty"`
}

func strPtr(s string) *string { return &s }

// DefaultSiteConfig is served when no config row exists yet.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		HeroMainHeading:     strPtr("Welcome to Sixpoint Victoria"),
		HeroHighlightedText: strPtr("Luxury & Comfort"),
		HeroDescription:     strPtr("Experience unparalleled hospitality and world-class amenities"),
		Phone1:              strPtr("+254712345678"),
		Phone2:              strPtr("+254787654321"),
		Location:            strPtr("Kisumu, Kenya"),
	}
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers     int          `json:"totalUsers"`
	TotalBookings  int          `json:"totalBookings"`
	TotalRooms     int          `json:"totalRooms"`
	TotalRevenue   domain.Money `json:"totalRevenue"`
	RecentBookings []Booking    `json:"recentBookings"`
	RecentUsers    []PublicUser `json:"recentUsers"`
}
