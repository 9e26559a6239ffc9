package repositories

import (
	"context"
	"fmt"

	intdb "github.com/Hakheem/sixpoint/internal/db"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const reviewColumns = `v.id, v.rating, v.comment, v.hidden, v.user_id, COALESCE(u.name, '') AS user_name,
	v.room_id, v.booking_id, v.created_at`

type ReviewRepository struct {
	DB *sqlx.DB
}

func (r ReviewRepository) VisibleByRoom(ctx context.Context, roomID string, limit int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.DB.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+`
		FROM reviews v
		LEFT JOIN users u ON u.id = v.user_id
		WHERE v.room_id = ? AND v.hidden = 0
		ORDER BY v.created_at DESC
		LIMIT ?`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list room reviews: %w", err)
	}
	return reviews, nil
}

func (r ReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.DB.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+`
		FROM reviews v
		LEFT JOIN users u ON u.id = v.user_id
		WHERE v.user_id = ?
		ORDER BY v.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	return reviews, nil
}

// Summaries returns visible-review aggregates keyed by room id.
// Rooms without reviews are absent from the map.
func (r ReviewRepository) Summaries(ctx context.Context, roomIDs []string) (map[string]models.RatingSummary, error) {
	out := map[string]models.RatingSummary{}
	if len(roomIDs) == 0 {
		return out, nil
	}
	query, args, err := intdb.In(r.DB, `
		SELECT room_id, AVG(rating) AS avg_rating, COUNT(*) AS total_reviews
		FROM reviews
		WHERE room_id IN (?) AND hidden = 0
		GROUP BY room_id`, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build rating query: %w", err)
	}
	var rows []models.RatingSummary
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	for _, s := range rows {
		out[s.RoomID] = s
	}
	return out, nil
}

// Create fails with ErrDuplicate when the booking already has a review.
func (r ReviewRepository) Create(ctx context.Context, v models.Review) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO reviews (id, rating, comment, hidden, user_id, room_id, booking_id, created_at)
		VALUES (:id, :rating, :comment, :hidden, :user_id, :room_id, :booking_id, :created_at)`, v)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r ReviewRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE reviews SET hidden = ? WHERE id = ?`, hidden, id)
	if err != nil {
		return fmt.Errorf("failed to update review visibility: %w", err)
	}
	return expectAffected(res)
}
