package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/google/uuid"
)

type ReviewService struct {
	Reviews   ReviewStore
	Bookings  BookingLedger
	RequestID string
}

// Create accepts one review per completed booking, for a room that booking held.
func (s ReviewService) Create(ctx context.Context, userID string, in models.ReviewInput) (models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	b, err := s.Bookings.GetByID(ctx, in.BookingID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && b.UserID != userID) {
		return models.Review{}, domain.NotFoundError{Resource: "Booking"}
	}
	if err != nil {
		utils.LogError(s.RequestID, "review", "load_booking", err)
		return models.Review{}, domain.Internal("failed to load booking", err)
	}
	if b.Status != models.StatusCheckedOut {
		return models.Review{}, domain.ValidationError{Msg: "Only completed stays can be reviewed"}
	}
	held := false
	for _, id := range b.RoomIDs {
		if id == in.RoomID {
			held = true
			break
		}
	}
	if !held {
		return models.Review{}, domain.ValidationError{Field: "roomId", Msg: "room is not part of this booking"}
	}

	var comment *string
	if in.Comment != nil {
		comment = utils.StrOrNil(*in.Comment)
	}
	v := models.Review{
		ID:        uuid.NewString(),
		Rating:    in.Rating,
		Comment:   comment,
		UserID:    userID,
		RoomID:    in.RoomID,
		BookingID: b.ID,
		CreatedAt: utils.NowUTC(),
	}
	if err := s.Reviews.Create(ctx, v); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Review{}, domain.ConflictError{Resource: "Review", Msg: "this booking has already been reviewed"}
		}
		utils.LogError(s.RequestID, "review", "create", err)
		return models.Review{}, domain.Internal("failed to save review", err)
	}
	utils.LogEvent(s.RequestID, "review", "create",
		fmt.Sprintf("review_id=%s booking_id=%s rating=%d", v.ID, b.ID, v.Rating))
	return v, nil
}

func (s ReviewService) ListMine(ctx context.Context, userID string) ([]models.Review, error) {
	out, err := s.Reviews.ListByUser(ctx, userID)
	if err != nil {
		utils.LogError(s.RequestID, "review", "list_user", err)
		return nil, domain.Internal("failed to list reviews", err)
	}
	return out, nil
}

func (s ReviewService) SetVisibility(ctx context.Context, id string, hidden bool) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	err := s.Reviews.SetHidden(ctx, id, hidden)
	if errors.Is(err, repositories.ErrNotFound) {
		return domain.NotFoundError{Resource: "Review", Err: err}
	}
	if err != nil {
		utils.LogError(s.RequestID, "review", "visibility", err)
		return domain.Internal("failed to update review", err)
	}
	utils.LogEvent(s.RequestID, "review", "visibility", fmt.Sprintf("review_id=%s hidden=%t", id, hidden))
	return nil
}
