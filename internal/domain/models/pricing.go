package models

import (
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
)

// PriceRequest is the input of a quote. Zero times mean "not provided".
type PriceRequest struct {
	RoomIDs         []string
	CheckIn         time.Time
	CheckOut        time.Time
	ExtraServiceIDs []string
}

type RoomPriceLine struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	PricePerNight domain.Money `json:"pricePerNight"`
	Nights        int          `json:"nights"`
	Total         domain.Money `json:"total"`
}

type ExtraServiceLine struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Price domain.Money `json:"price"`
}

type PriceLines struct {
	Rooms         []RoomPriceLine    `json:"rooms"`
	ExtraServices []ExtraServiceLine `json:"extraServices"`
}

type PriceTotals struct {
	RoomTotal          domain.Money `json:"roomTotal"`
	ExtraServicesTotal domain.Money `json:"extraServicesTotal"`
	Subtotal           domain.Money `json:"subtotal"`
	TaxRate            string       `json:"taxRate"`
	TaxAmount          domain.Money `json:"taxAmount"`
	Total              domain.Money `json:"total"`
}

type StayDetails struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Nights   int    `json:"nights"`
}

type PriceBreakdown struct {
	Breakdown   PriceLines  `json:"breakdown"`
	Totals      PriceTotals `json:"totals"`
	StayDetails StayDetails `json:"stayDetails"`
}

// AvailabilityResult never exposes which bookings conflict, only how many.
type AvailabilityResult struct {
	Available     bool `json:"isAvailable"`
	ConflictCount int  `json:"conflictingBookings"`
}

// BookingRequest is the guest payload for a new reservation.
type BookingRequest struct {
	PriceRequest
	PaymentMethod PaymentMethod
}
