package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/google/uuid"
)

const msgRoomUnavailable = "Room is not available for selected dates"

type BookingService struct {
	Pricing   PricingService
	Bookings  BookingLedger
	RequestID string
}

// CreateBooking prices the stay and reserves it as PENDING. The overlap check is
// repeated inside the reservation transaction, so a stale availability answer
// surfaces here as a ConflictError.
func (s BookingService) CreateBooking(ctx context.Context, userID string, req models.BookingRequest) (models.Booking, models.PriceBreakdown, error) {
	roomIDs := utils.CleanIDs(req.RoomIDs)
	if len(utils.UniqueStrings(roomIDs)) != len(roomIDs) {
		return models.Booking{}, models.PriceBreakdown{}, domain.ValidationError{Field: "roomIds", Msg: "rooms must not repeat"}
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentNone
	}
	if !method.Valid() {
		return models.Booking{}, models.PriceBreakdown{}, domain.ValidationError{Field: "paymentMethod", Msg: "unsupported payment method"}
	}

	pricing := s.Pricing
	pricing.RequestID = s.RequestID
	quote, err := pricing.CalculatePrice(ctx, req.PriceRequest)
	if err != nil {
		return models.Booking{}, models.PriceBreakdown{}, err
	}

	now := utils.NowUTC()
	extraIDs := make([]string, 0, len(quote.Breakdown.ExtraServices))
	for _, e := range quote.Breakdown.ExtraServices {
		extraIDs = append(extraIDs, e.ID)
	}
	b := models.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          models.StatusPending,
		CheckIn:         req.CheckIn.UTC(),
		CheckOut:        req.CheckOut.UTC(),
		Subtotal:        quote.Totals.Subtotal,
		TaxRate:         quote.Totals.TaxRate,
		TaxAmount:       quote.Totals.TaxAmount,
		TotalAmount:     quote.Totals.Total,
		PaymentMethod:   method,
		CreatedAt:       now,
		UpdatedAt:       now,
		RoomIDs:         roomIDs,
		ExtraServiceIDs: extraIDs,
	}

	if err := s.Bookings.Reserve(ctx, b, quote.Breakdown.Rooms, quote.Breakdown.ExtraServices); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRoomUnavailable):
			return models.Booking{}, models.PriceBreakdown{}, domain.ConflictError{Msg: msgRoomUnavailable, Err: err}
		case errors.Is(err, repositories.ErrRoomMissing):
			return models.Booking{}, models.PriceBreakdown{}, domain.NotFoundError{Resource: "One or more rooms", Err: err}
		}
		utils.LogError(s.RequestID, "booking", "reserve", err)
		return models.Booking{}, models.PriceBreakdown{}, domain.Internal("failed to reserve booking", err)
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%s user_id=%s rooms=%d total=%d", b.ID, userID, len(roomIDs), int64(b.TotalAmount)))
	return b, quote, nil
}

func (s BookingService) get(ctx context.Context, id string) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Booking{}, domain.NotFoundError{Resource: "Booking", Err: err}
	}
	if err != nil {
		utils.LogError(s.RequestID, "booking", "get", err)
		return models.Booking{}, domain.Internal("failed to load booking", err)
	}
	return b, nil
}

// GetUserBooking hides other users' bookings behind NotFound.
func (s BookingService) GetUserBooking(ctx context.Context, userID, id string) (models.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != userID {
		return models.Booking{}, domain.NotFoundError{Resource: "Booking"}
	}
	return b, nil
}

func (s BookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	out, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "list_user", err)
		return nil, domain.Internal("failed to list bookings", err)
	}
	return out, nil
}

func (s BookingService) CancelBooking(ctx context.Context, userID, id string) (models.Booking, error) {
	b, err := s.GetUserBooking(ctx, userID, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Status.CanTransitionTo(models.StatusCancelled) {
		return models.Booking{}, domain.ConflictError{Resource: "Booking", Msg: fmt.Sprintf("cannot cancel a %s booking", b.Status)}
	}
	return s.transition(ctx, b, models.StatusCancelled)
}

// ListBookings is the admin view; an empty status lists everything.
func (s BookingService) ListBookings(ctx context.Context, status models.BookingStatus, p domain.Pagination) ([]models.Booking, domain.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, p, domain.ValidationError{Field: "status", Msg: "unknown booking status"}
	}
	out, total, err := s.Bookings.List(ctx, status, p)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "list", err)
		return nil, p, domain.Internal("failed to list bookings", err)
	}
	return out, p.WithTotal(total), nil
}

// UpdateStatus applies an admin transition. Confirming re-checks room overlaps.
func (s BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	if !status.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "unknown booking status"}
	}
	b, err := s.get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Status.CanTransitionTo(status) {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("cannot move from %s to %s", b.Status, status)}
	}
	return s.transition(ctx, b, status)
}

func (s BookingService) transition(ctx context.Context, b models.Booking, status models.BookingStatus) (models.Booking, error) {
	err := s.Bookings.UpdateStatus(ctx, b, status)
	switch {
	case errors.Is(err, repositories.ErrRoomUnavailable):
		return models.Booking{}, domain.ConflictError{Msg: msgRoomUnavailable, Err: err}
	case errors.Is(err, repositories.ErrRoomMissing):
		return models.Booking{}, domain.ConflictError{Resource: "Booking", Msg: "one or more of its rooms no longer exist", Err: err}
	case errors.Is(err, repositories.ErrNotFound):
		// status changed underneath us
		return models.Booking{}, domain.ConflictError{Resource: "Booking", Msg: "status changed, reload and retry", Err: err}
	case err != nil:
		utils.LogError(s.RequestID, "booking", "update_status", err)
		return models.Booking{}, domain.Internal("failed to update booking", err)
	}
	utils.LogEvent(s.RequestID, "booking", "status",
		fmt.Sprintf("booking_id=%s from=%s to=%s", b.ID, b.Status, status))
	b.Status = status
	b.UpdatedAt = utils.NowUTC()
	return b, nil
}
