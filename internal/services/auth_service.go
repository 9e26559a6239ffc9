package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	resetTokenTTL     = time.Hour
	verifyTokenTTL    = 24 * time.Hour
)

var validate = validator.New()

var errBadCredentials = domain.UnauthorizedError{Msg: "Invalid email or password"}

type AuthService struct {
	Users     UserStore
	Verify    VerificationStore
	Secret    []byte
	TTL       time.Duration
	RequestID string
}

// Claims is the session token payload.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

func (s AuthService) TokenTTL() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.PublicUser, error) {
	name := utils.NormalizeSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return models.PublicUser{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return models.PublicUser{}, domain.ValidationError{Field: "email", Msg: "must be a valid email address"}
	}
	if len(in.Password) < minPasswordLength {
		return models.PublicUser{}, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, domain.Internal("failed to hash password", err)
	}

	now := utils.NowUTC()
	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        utils.StrOrNil(in.Phone),
		PasswordHash: string(hash),
		Role:         domain.RoleGuest,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.PublicUser{}, domain.ConflictError{Resource: "User", Msg: "email already registered"}
		}
		utils.LogError(s.RequestID, "auth", "register", err)
		return models.PublicUser{}, domain.Internal("failed to create user", err)
	}
	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+u.ID)
	return u.ToPublic(), nil
}

// Login returns a signed token. Unknown emails and wrong passwords look the same.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	u, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.PublicUser{}, errBadCredentials
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "login", err)
		return "", models.PublicUser{}, domain.Internal("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", models.PublicUser{}, errBadCredentials
	}
	if !u.IsActive {
		return "", models.PublicUser{}, domain.ForbiddenError{Msg: "Account is inactive"}
	}

	token, err := s.issue(u)
	if err != nil {
		return "", models.PublicUser{}, domain.Internal("failed to sign token", err)
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+u.ID)
	return token, u.ToPublic(), nil
}

func (s AuthService) issue(u models.User) (string, error) {
	now := utils.NowUTC()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Authenticate validates a token and reloads the user so role changes and
// deactivation take effect before the token expires.
func (s AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return models.User{}, domain.UnauthorizedError{Msg: "Invalid or expired token", Err: err}
	}
	return s.CurrentUser(ctx, claims.UserID)
}

func (s AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, domain.UnauthorizedError{Msg: "User no longer exists"}
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "current_user", err)
		return models.User{}, domain.Internal("failed to load user", err)
	}
	if !u.IsActive {
		return models.User{}, domain.ForbiddenError{Msg: "Account is inactive"}
	}
	return u, nil
}

// UpdateProfile changes name and/or phone; nil leaves a field alone.
func (s AuthService) UpdateProfile(ctx context.Context, userID string, name, phone *string) (models.User, error) {
	if name != nil {
		n := utils.NormalizeSpace(*name)
		if n == "" {
			return models.User{}, domain.ValidationError{Field: "name", Msg: "must not be empty"}
		}
		name = &n
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		phone = &p
	}
	err := s.Users.UpdateProfile(ctx, userID, name, phone)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, domain.NotFoundError{Resource: "User", Err: err}
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "update_profile", err)
		return models.User{}, domain.Internal("failed to update profile", err)
	}
	return s.CurrentUser(ctx, userID)
}

func newVerificationToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s AuthService) issueVerification(ctx context.Context, userID string, purpose models.VerificationPurpose, ttl time.Duration) (string, error) {
	raw, hash, err := newVerificationToken()
	if err != nil {
		return "", domain.Internal("failed to generate token", err)
	}
	now := utils.NowUTC()
	err = s.Verify.Create(ctx, models.Verification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: hash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		utils.LogError(s.RequestID, "auth", "issue_token", err)
		return "", domain.Internal("failed to store token", err)
	}
	utils.LogEvent(s.RequestID, "auth", "issue_token", fmt.Sprintf("user_id=%s purpose=%s", userID, purpose))
	return raw, nil
}

// consume resolves a raw token to its user id. Unknown, used and expired tokens
// all fail with invalidMsg.
func (s AuthService) consume(ctx context.Context, raw string, purpose models.VerificationPurpose, invalidMsg string) (string, error) {
	v, err := s.Verify.Consume(ctx, hashToken(strings.TrimSpace(raw)), purpose, utils.NowUTC())
	if errors.Is(err, repositories.ErrNotFound) {
		return "", domain.ValidationError{Msg: invalidMsg}
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "consume_token", err)
		return "", domain.Internal("failed to check token", err)
	}
	return v.UserID, nil
}

// RequestPasswordReset issues a one-hour reset token. Unknown and inactive
// accounts get an empty token and no error, so the response does not reveal
// which emails are registered.
func (s AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ValidationError{Msg: "Email is required"}
	}
	u, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.LogEvent(s.RequestID, "auth", "request_reset", "no matching account")
		return "", nil
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "request_reset", err)
		return "", domain.Internal("failed to load user", err)
	}
	if !u.IsActive {
		utils.LogEvent(s.RequestID, "auth", "request_reset", "inactive account user_id="+u.ID)
		return "", nil
	}
	return s.issueVerification(ctx, u.ID, models.PurposePasswordReset, resetTokenTTL)
}

// ResetPassword sets a new password with a reset token. The token is spent even
// if the user has since been removed.
func (s AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" || newPassword == "" {
		return domain.ValidationError{Msg: "Token and new password are required"}
	}
	if len(newPassword) < minPasswordLength {
		return domain.ValidationError{Msg: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}
	const invalid = "Invalid or expired reset token"
	userID, err := s.consume(ctx, token, models.PurposePasswordReset, invalid)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("failed to hash password", err)
	}
	err = s.Users.SetPassword(ctx, userID, string(hash))
	if errors.Is(err, repositories.ErrNotFound) {
		return domain.ValidationError{Msg: invalid}
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "reset_password", err)
		return domain.Internal("failed to update password", err)
	}
	utils.LogEvent(s.RequestID, "auth", "reset_password", "user_id="+userID)
	return nil
}

// RequestEmailVerification issues a 24-hour token for confirming userID's email.
func (s AuthService) RequestEmailVerification(ctx context.Context, userID string) (string, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.EmailVerified {
		return "", domain.ConflictError{Resource: "User", Msg: "email already verified"}
	}
	return s.issueVerification(ctx, u.ID, models.PurposeEmailVerify, verifyTokenTTL)
}

func (s AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return domain.ValidationError{Msg: "Verification token is required"}
	}
	const invalid = "Invalid or expired verification token"
	userID, err := s.consume(ctx, token, models.PurposeEmailVerify, invalid)
	if err != nil {
		return err
	}
	err = s.Users.MarkEmailVerified(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return domain.ValidationError{Msg: invalid}
	}
	if err != nil {
		utils.LogError(s.RequestID, "auth", "verify_email", err)
		return domain.Internal("failed to verify email", err)
	}
	utils.LogEvent(s.RequestID, "auth", "verify_email", "user_id="+userID)
	return nil
}
