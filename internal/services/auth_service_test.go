package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func authFixture() (AuthService, *fakeUsers) {
	users := newFakeUsers()
	return AuthService{Users: users, Verify: newFakeVerifications(), Secret: []byte("test-secret"), TTL: time.Hour}, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users := authFixture()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "  Jane   Doe ", Email: "Jane@Example.com", Password: "supersecret", Phone: "0712"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.Role != domain.RoleGuest || !u.IsActive || u.Email != "jane@example.com" || u.Name != "Jane Doe" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if stored := users.users[u.ID]; stored.PasswordHash == "" || stored.PasswordHash == "supersecret" {
		t.Fatalf("password not hashed")
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"}); !domain.IsConflict(err) {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}

	token, who, err := svc.Login(ctx, "JANE@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || who.ID != u.ID {
		t.Fatalf("unexpected login result: %q %+v", token, who)
	}

	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated %s, want %s", got.ID, u.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := authFixture()
	cases := []RegisterInput{
		{Name: "", Email: "a@b.co", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@b.co", Password: "short"},
	}
	for i, in := range cases {
		if _, err := svc.Register(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("case %d: expected validation, got %v", i, err)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	svc, users := authFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Sam", Email: "sam@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "sam@example.com", "wrong-password"); !domain.IsUnauthorized(err) {
		t.Fatalf("wrong password: expected unauthorized, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !domain.IsUnauthorized(err) {
		t.Fatalf("unknown email: expected unauthorized, got %v", err)
	}

	stored := users.users[u.ID]
	stored.IsActive = false
	users.users[u.ID] = stored
	if _, _, err := svc.Login(ctx, "sam@example.com", "password123"); !domain.IsForbidden(err) {
		t.Fatalf("inactive: expected forbidden, got %v", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, users := authFixture()
	users.users["u1"] = models.User{ID: "u1", Role: domain.RoleAdmin, IsActive: true}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString(svc.Secret)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"})
	foreignToken, _ := foreign.SignedString([]byte("other-secret"))

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"expired":      expiredToken,
		"wrong secret": foreignToken,
	} {
		if _, err := svc.Authenticate(context.Background(), token); !domain.IsUnauthorized(err) {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
	}

	good, err := svc.issue(users.users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	u := users.users["u1"]
	u.IsActive = false
	users.users["u1"] = u
	if _, err := svc.Authenticate(context.Background(), good); !domain.IsForbidden(err) {
		t.Fatalf("deactivated user: expected forbidden, got %v", err)
	}
	delete(users.users, "u1")
	if _, err := svc.Authenticate(context.Background(), good); !domain.IsUnauthorized(err) {
		t.Fatalf("deleted user: expected unauthorized, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, users := authFixture()
	users.users["u1"] = models.User{ID: "u1", Name: "Old", IsActive: true}

	name := "  New   Name "
	got, err := svc.UpdateProfile(context.Background(), "u1", &name, nil)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.Name != "New Name" || got.Phone != nil {
		t.Fatalf("unexpected user: %+v", got)
	}

	blank := "   "
	if _, err := svc.UpdateProfile(context.Background(), "u1", &blank, nil); !domain.IsValidation(err) {
		t.Fatalf("blank name: expected validation, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), "ghost", nil, nil); !domain.IsNotFound(err) {
		t.Fatalf("unknown user: expected not found, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := authFixture()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "oldpassword"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, " JANE@example.com ")
	if err != nil || len(token) != 64 {
		t.Fatalf("request reset: token=%q err=%v", token, err)
	}
	store := svc.Verify.(*fakeVerifications)
	if _, ok := store.tokens[token]; ok {
		t.Fatalf("raw token must not be stored")
	}

	if err := svc.ResetPassword(ctx, token, "short"); !domain.IsValidation(err) || !strings.Contains(err.Error(), "at least 8") {
		t.Fatalf("short password: expected validation, got %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "newpassword"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "jane@example.com", "newpassword"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "jane@example.com", "oldpassword"); !domain.IsUnauthorized(err) {
		t.Fatalf("old password still works: %v", err)
	}

	err = svc.ResetPassword(ctx, token, "anotherpassword")
	if !domain.IsValidation(err) || err.Error() != "Invalid or expired reset token" {
		t.Fatalf("reused token: expected invalid, got %v", err)
	}
}

func TestPasswordResetEdgeCases(t *testing.T) {
	svc, users := authFixture()
	ctx := context.Background()

	if _, err := svc.RequestPasswordReset(ctx, " "); !domain.IsValidation(err) {
		t.Fatalf("blank email: expected validation, got %v", err)
	}
	token, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	if err != nil || token != "" {
		t.Fatalf("unknown email must look like success: token=%q err=%v", token, err)
	}

	users.users["off"] = models.User{ID: "off", Email: "off@example.com", IsActive: false}
	if token, err := svc.RequestPasswordReset(ctx, "off@example.com"); err != nil || token != "" {
		t.Fatalf("inactive account: token=%q err=%v", token, err)
	}

	users.users["u1"] = models.User{ID: "u1", Email: "u1@example.com", IsActive: true}
	first, _ := svc.RequestPasswordReset(ctx, "u1@example.com")
	second, _ := svc.RequestPasswordReset(ctx, "u1@example.com")
	if err := svc.ResetPassword(ctx, first, "newpassword"); !domain.IsValidation(err) {
		t.Fatalf("superseded token: expected validation, got %v", err)
	}

	store := svc.Verify.(*fakeVerifications)
	for hash, v := range store.tokens {
		v.ExpiresAt = time.Now().Add(-time.Minute)
		store.tokens[hash] = v
	}
	if err := svc.ResetPassword(ctx, second, "newpassword"); !domain.IsValidation(err) {
		t.Fatalf("expired token: expected validation, got %v", err)
	}
	if err := svc.ResetPassword(ctx, "", "newpassword"); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("missing token: expected required error, got %v", err)
	}
}

func TestEmailVerification(t *testing.T) {
	svc, users := authFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.EmailVerified {
		t.Fatalf("new accounts start unverified")
	}

	token, err := svc.RequestEmailVerification(ctx, u.ID)
	if err != nil || token == "" {
		t.Fatalf("request verification: %q %v", token, err)
	}
	// a reset token cannot verify an email
	reset, _ := svc.RequestPasswordReset(ctx, "jane@example.com")
	if err := svc.VerifyEmail(ctx, reset); !domain.IsValidation(err) {
		t.Fatalf("reset token used for verification: %v", err)
	}

	if err := svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !users.users[u.ID].EmailVerified {
		t.Fatalf("email_verified not set")
	}
	if err := svc.VerifyEmail(ctx, token); !domain.IsValidation(err) || err.Error() != "Invalid or expired verification token" {
		t.Fatalf("reused token: %v", err)
	}
	if _, err := svc.RequestEmailVerification(ctx, u.ID); !domain.IsConflict(err) {
		t.Fatalf("already verified: expected conflict, got %v", err)
	}
	if err := svc.VerifyEmail(ctx, ""); !domain.IsValidation(err) {
		t.Fatalf("blank token: expected validation, got %v", err)
	}
}
