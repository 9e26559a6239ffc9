package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

type User struct {
	ID            string      `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Email         string      `db:"email" json:"email"`
	Phone         *string     `db:"phone" json:"phone,omitempty"`
	PasswordHash  string      `db:"password_hash" json:"-"`
	Role          domain.Role `db:"role" json:"role"`
	IsActive      bool        `db:"is_active" json:"isActive"`
	EmailVerified bool        `db:"email_verified" json:"emailVerified"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// PublicUser never carries the password hash.
type PublicUser struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         *string     `json:"phone,omitempty"`
	Role          domain.Role `json:"role"`
	IsActive      bool        `json:"isActive"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// UserFilter backs the superadmin user listing.
type UserFilter struct {
	Role   domain.Role
	Search string
}
