package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
)

// BlockingStatuses are the only statuses that hold a room against new stays.
// PENDING does not reserve anything.
var BlockingStatuses = []BookingStatus{StatusConfirmed, StatusCheckedIn}

// ActiveStatuses are the statuses a booking can still move out of.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCheckedIn}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}

func (s BookingStatus) Blocks() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, n := range statusTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentNone     PaymentMethod = "NONE"
	PaymentMpesa    PaymentMethod = "MPESA"
	PaymentPaystack PaymentMethod = "PAYSTACK"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentNone, PaymentMpesa, PaymentPaystack:
		return true
	}
	return false
}

// Booking covers [CheckIn, CheckOut); CheckOut is exclusive. Subtotal, TaxRate and
// TaxAmount are frozen from the quote at reservation time.
type Booking struct {
	ID               string        `db:"id" json:"id"`
	UserID           string        `db:"user_id" json:"userId"`
	Status           BookingStatus `db:"status" json:"status"`
	CheckIn          time.Time     `db:"check_in" json:"checkIn"`
	CheckOut         time.Time     `db:"check_out" json:"checkOut"`
	Subtotal         domain.Money  `db:"subtotal_cents" json:"subtotal"`
	TaxRate          string        `db:"tax_rate" json:"taxRate"`
	TaxAmount        domain.Money  `db:"tax_amount_cents" json:"taxAmount"`
	TotalAmount      domain.Money  `db:"total_amount_cents" json:"totalAmount"`
	PaymentMethod    PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentReference *string       `db:"payment_reference" json:"paymentReference,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`

	RoomIDs         []string `db:"-" json:"roomIds"`
	ExtraServiceIDs []string `db:"-" json:"extraServiceIds"`
}

// Overlaps reports whether the half-open ranges [CheckIn, CheckOut) and [from, to) intersect.
// Touching ranges do not overlap.
func (b Booking) Overlaps(from, to time.Time) bool {
	return b.CheckIn.Before(to) && b.CheckOut.After(from)
}
