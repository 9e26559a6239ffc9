package models

import "time"

type Review struct {
	ID        string    `db:"id" json:"id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Hidden    bool      `db:"hidden" json:"hidden"`
	UserID    string    `db:"user_id" json:"userId"`
	UserName  string    `db:"user_name" json:"userName,omitempty"`
	RoomID    string    `db:"room_id" json:"roomId"`
	BookingID string    `db:"booking_id" json:"bookingId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ReviewInput struct {
	BookingID string  `json:"bookingId" binding:"required"`
	RoomID    string  `json:"roomId" binding:"required"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   *string `json:"comment"`
}
