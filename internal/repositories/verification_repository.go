package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type VerificationRepository struct {
	DB *sqlx.DB
}

// Create stores v and drops any earlier token the user holds for the same purpose,
// so only the newest link works.
func (r VerificationRepository) Create(ctx context.Context, v models.Verification) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verifications WHERE user_id = ? AND purpose = ?`, v.UserID, string(v.Purpose)); err != nil {
		rollback(tx, err)
		return fmt.Errorf("failed to clear old verifications: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO verifications (id, user_id, purpose, token_hash, expires_at, created_at)
		VALUES (:id, :user_id, :purpose, :token_hash, :expires_at, :created_at)`, v); err != nil {
		rollback(tx, err)
		return fmt.Errorf("failed to create verification: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Consume deletes and returns the unexpired token matching tokenHash and purpose.
// A token can be consumed once; afterwards ErrNotFound is returned.
func (r VerificationRepository) Consume(ctx context.Context, tokenHash string, purpose models.VerificationPurpose, now time.Time) (models.Verification, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Verification{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var v models.Verification
	err = tx.GetContext(ctx, &v, `
		SELECT id, user_id, purpose, token_hash, expires_at, created_at
		FROM verifications
		WHERE token_hash = ? AND purpose = ? AND expires_at >= ?
		LIMIT 1
		FOR UPDATE`, tokenHash, string(purpose), now)
	if errors.Is(err, sql.ErrNoRows) {
		rollback(tx, err)
		return models.Verification{}, ErrNotFound
	}
	if err != nil {
		rollback(tx, err)
		return models.Verification{}, fmt.Errorf("failed to load verification: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM verifications WHERE id = ?`, v.ID); err != nil {
		rollback(tx, err)
		return models.Verification{}, fmt.Errorf("failed to delete verification: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Verification{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return v, nil
}
