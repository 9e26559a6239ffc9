package models

import "time"

type VerificationPurpose string

const (
	PurposePasswordReset VerificationPurpose = "PASSWORD_RESET"
	PurposeEmailVerify   VerificationPurpose = "EMAIL_VERIFY"
)

// Verification is a single-use token. Only the SHA-256 of the token is stored.
type Verification struct {
	ID        string              `db:"id"`
	UserID    string              `db:"user_id"`
	Purpose   VerificationPurpose `db:"purpose"`
	TokenHash string              `db:"token_hash"`
	ExpiresAt time.Time           `db:"expires_at"`
	CreatedAt time.Time           `db:"created_at"`
}
