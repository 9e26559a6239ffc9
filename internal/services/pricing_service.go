package services

import (
	"context"
	"fmt"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/utils"
)

// PricingService builds itemised quotes. Read-only.
type PricingService struct {
	Rooms     RoomStore
	Extras    ExtraServiceStore
	TaxRate   float64
	RequestID string
}

func validatePriceRequest(req models.PriceRequest) (roomIDs []string, nights int, err error) {
	roomIDs = utils.CleanIDs(req.RoomIDs)
	if len(roomIDs) == 0 {
		return nil, 0, domain.ValidationError{Msg: "At least one room is required"}
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, 0, domain.ValidationError{Msg: msgDatesRequired}
	}
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, 0, domain.ValidationError{Msg: msgCheckoutBefore}
	}
	nights = utils.Nights(req.CheckIn, req.CheckOut)
	if nights < 1 {
		return nil, 0, domain.ValidationError{Msg: "Minimum stay is 1 night"}
	}
	return roomIDs, nights, nil
}

// CalculatePrice prices every requested room occurrence for the stay, adds each
// distinct known extra once, then applies tax to the subtotal.
func (s PricingService) CalculatePrice(ctx context.Context, req models.PriceRequest) (models.PriceBreakdown, error) {
	roomIDs, nights, err := validatePriceRequest(req)
	if err != nil {
		return models.PriceBreakdown{}, err
	}

	rooms, err := s.Rooms.FindMany(ctx, utils.UniqueStrings(roomIDs))
	if err != nil {
		utils.LogError(s.RequestID, "pricing", "find_rooms", err)
		return models.PriceBreakdown{}, domain.Internal("failed to load rooms", err)
	}
	byID := make(map[string]models.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	roomLines := make([]models.RoomPriceLine, 0, len(roomIDs))
	var roomTotal domain.Money
	for _, id := range roomIDs {
		room, ok := byID[id]
		if !ok {
			return models.PriceBreakdown{}, domain.NotFoundError{Resource: "One or more rooms"}
		}
		line := models.RoomPriceLine{
			ID:            room.ID,
			Title:         room.Title,
			PricePerNight: room.PricePerNight,
			Nights:        nights,
			Total:         room.PricePerNight.Times(nights),
		}
		roomTotal += line.Total
		roomLines = append(roomLines, line)
	}

	extraLines, err := s.extraLines(ctx, req.ExtraServiceIDs)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	var extrasTotal domain.Money
	for _, e := range extraLines {
		extrasTotal += e.Price
	}

	subtotal := roomTotal + extrasTotal
	tax := subtotal.ApplyRate(s.TaxRate)

	utils.LogEvent(s.RequestID, "pricing", "calculate",
		fmt.Sprintf("rooms=%d nights=%d extras=%d total=%d", len(roomLines), nights, len(extraLines), int64(subtotal+tax)))

	return models.PriceBreakdown{
		Breakdown: models.PriceLines{
			Rooms:         roomLines,
			ExtraServices: extraLines,
		},
		Totals: models.PriceTotals{
			RoomTotal:          roomTotal,
			ExtraServicesTotal: extrasTotal,
			Subtotal:           subtotal,
			TaxRate:            utils.FormatRate(s.TaxRate),
			TaxAmount:          tax,
			Total:              subtotal + tax,
		},
		StayDetails: models.StayDetails{
			CheckIn:  utils.FormatISO(req.CheckIn),
			CheckOut: utils.FormatISO(req.CheckOut),
			Nights:   nights,
		},
	}, nil
}

// extraLines resolves distinct extra ids in request order; unknown ids are dropped.
func (s PricingService) extraLines(ctx context.Context, ids []string) ([]models.ExtraServiceLine, error) {
	ids = utils.UniqueStrings(utils.CleanIDs(ids))
	lines := make([]models.ExtraServiceLine, 0, len(ids))
	if len(ids) == 0 || s.Extras == nil {
		return lines, nil
	}
	extras, err := s.Extras.FindMany(ctx, ids)
	if err != nil {
		utils.LogError(s.RequestID, "pricing", "find_extras", err)
		return nil, domain.Internal("failed to load extra services", err)
	}
	byID := make(map[string]models.ExtraService, len(extras))
	for _, e := range extras {
		byID[e.ID] = e
	}
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			lines = append(lines, models.ExtraServiceLine{ID: e.ID, Title: e.Title, Price: e.Price})
		}
	}
	return lines, nil
}
