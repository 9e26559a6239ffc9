package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/utils"
)

const (
	msgDatesRequired  = "Check-in and check-out dates are required"
	msgCheckoutBefore = "Check-out date must be after check-in date"
)

// AvailabilityService answers whether a room is free for [checkIn, checkOut).
// The answer is advisory; booking creation re-checks under a lock.
type AvailabilityService struct {
	Bookings  BookingStore
	RequestID string
}

func (s AvailabilityService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (models.AvailabilityResult, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return models.AvailabilityResult{}, domain.ValidationError{Msg: msgDatesRequired}
	}
	if !checkIn.Before(checkOut) {
		return models.AvailabilityResult{}, domain.ValidationError{Msg: msgCheckoutBefore}
	}

	bookings, err := s.Bookings.FindOverlapping(ctx, roomID, checkIn, checkOut, models.BlockingStatuses)
	if err != nil {
		utils.LogError(s.RequestID, "availability", "find_overlapping", err)
		return models.AvailabilityResult{}, domain.Internal("failed to check availability", err)
	}

	// stores may hand back a superset; only blocking overlaps count
	conflicts := 0
	for _, b := range bookings {
		if b.Status.Blocks() && b.Overlaps(checkIn, checkOut) {
			conflicts++
		}
	}

	utils.LogEvent(s.RequestID, "availability", "check",
		fmt.Sprintf("room_id=%s check_in=%s check_out=%s conflicts=%d",
			roomID, utils.FormatDate(checkIn), utils.FormatDate(checkOut), conflicts))

	return models.AvailabilityResult{Available: conflicts == 0, ConflictCount: conflicts}, nil
}
