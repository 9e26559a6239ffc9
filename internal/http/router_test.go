package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "github.com/Hakheem/sixpoint/internal/config"
	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var (
	userCols = []string{"id", "name", "email", "phone", "password_hash", "role", "is_active",
		"email_verified", "created_at", "updated_at"}
	roomCols = []string{"id", "title", "description", "room_number", "capacity", "price_per_night_cents",
		"orientation", "allow_prepaid", "allow_pay_on_arrival", "type_id", "created_at", "updated_at"}
	bookingCols = []string{"id", "user_id", "status", "check_in", "check_out", "subtotal_cents",
		"tax_rate", "tax_amount_cents", "total_amount_cents", "payment_method", "payment_reference", "created_at", "updated_at"}
)

func newTestServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	env := intconfig.Env{JWTSecret: testSecret, JWTTTL: time.Hour, TaxRate: 0.16}
	return NewRouter(env, NewHandlers(env, sqlx.NewDb(raw, "mysql"))), mock
}

func mustMeet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func serve(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func tokenFor(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	claims := services.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func expectUser(mock sqlmock.Sqlmock, id string, role domain.Role, active bool) {
	now := time.Now()
	mock.ExpectQuery(`FROM users WHERE id = \?`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id, "Jane Guest", id+"@example.com", nil, "x", string(role), active, false, now, now))
}

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

func TestHealthAndUnknownRoute(t *testing.T) {
	r, _ := newTestServer(t)

	w := serve(r, http.MethodGet, "/api/health", "", "")
	if w.Code != http.StatusOK || decode(t, w)["status"] != "ok" {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decode(t, w); body["success"] != false || body["error"] != "Route not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAvailabilityReportsConflicts(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()
	mock.ExpectQuery(`FROM bookings b\s+JOIN booking_rooms br`).
		WithArgs("R", "CONFIRMED", "CHECKED_IN", day("2024-02-06"), day("2024-02-03")).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b1", "u1", "CONFIRMED", day("2024-02-01"), day("2024-02-05"), int64(30000), "16%", int64(4800), int64(34800), "NONE", nil, now, now))

	w := serve(r, http.MethodGet, "/api/public/rooms/R/availability?checkIn=2024-02-03&checkOut=2024-02-06", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]any)
	if data["isAvailable"] != false || data["conflictingBookings"] != float64(1) {
		t.Fatalf("unexpected data: %v", data)
	}
	if data["message"] != "Room is not available for selected dates" {
		t.Fatalf("unexpected message: %v", data["message"])
	}
	mustMeet(t, mock)
}

func TestAvailabilityValidation(t *testing.T) {
	r, mock := newTestServer(t)
	cases := map[string]string{
		"/api/public/rooms/R/availability":                                        "Check-in and check-out dates are required",
		"/api/public/rooms/R/availability?checkIn=2024-02-05&checkOut=2024-02-05": "Check-out date must be after check-in date",
	}
	for path, msg := range cases {
		w := serve(r, http.MethodGet, path, "", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
		if got := decode(t, w)["error"]; got != msg {
			t.Fatalf("%s: expected %q, got %v", path, msg, got)
		}
	}

	w := serve(r, http.MethodGet, "/api/public/rooms/R/availability?checkIn=soon&checkOut=2024-02-05", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed date: expected 400, got %d", w.Code)
	}
	mustMeet(t, mock)
}

func TestCalculatePriceEndpoint(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()
	mock.ExpectQuery(`FROM rooms r WHERE r\.id IN \(\?\)`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow("r1", "Deluxe", nil, nil, 2, int64(12000), "LANDSCAPE", true, true, nil, now, now))

	body := `{"roomIds":["r1"],"checkIn":"2024-03-01","checkOut":"2024-03-03"}`
	w := serve(r, http.MethodPost, "/api/public/calculate-price", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]any)
	totals := data["totals"].(map[string]any)
	if totals["subtotal"] != float64(240) || totals["taxAmount"] != 38.4 || totals["total"] != 278.4 {
		t.Fatalf("unexpected totals: %v", totals)
	}
	if totals["taxRate"] != "16%" {
		t.Fatalf("unexpected tax rate: %v", totals["taxRate"])
	}
	stay := data["stayDetails"].(map[string]any)
	if stay["nights"] != float64(2) || stay["checkIn"] != "2024-03-01T00:00:00.000Z" {
		t.Fatalf("unexpected stay: %v", stay)
	}
	mustMeet(t, mock)
}

func TestCalculatePriceErrors(t *testing.T) {
	r, mock := newTestServer(t)
	mock.ExpectQuery(`FROM rooms r WHERE r\.id IN \(\?\)`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(roomCols))

	w := serve(r, http.MethodPost, "/api/public/calculate-price",
		`{"roomIds":["ghost"],"checkIn":"2024-03-01","checkOut":"2024-03-02"}`, "")
	if w.Code != http.StatusNotFound || decode(t, w)["error"] != "One or more rooms not found" {
		t.Fatalf("unknown room: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/api/public/calculate-price", `{"roomIds":[],"checkIn":"2024-03-01","checkOut":"2024-03-02"}`, "")
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "At least one room is required" {
		t.Fatalf("no rooms: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/api/public/calculate-price", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty body: expected 400, got %d", w.Code)
	}
	mustMeet(t, mock)
}

func TestQuotePDF(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()
	mock.ExpectQuery(`FROM rooms r WHERE r\.id IN \(\?\)`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow("r1", "Deluxe", nil, nil, 2, int64(12000), "LANDSCAPE", true, true, nil, now, now))

	w := serve(r, http.MethodPost, "/api/public/calculate-price/pdf",
		`{"roomIds":["r1"],"checkIn":"2024-03-01","checkOut":"2024-03-03"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf")
	}
	mustMeet(t, mock)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, mock := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery(`FROM users WHERE email = \?`).WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Jane", "jane@example.com", nil, string(hash), "GUEST", true, false, now, now))

	w := serve(r, http.MethodPost, "/api/auth/login", `{"email":"Jane@Example.com","password":"password123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]any)
	if data["token"] == "" || data["user"].(map[string]any)["id"] != "u1" {
		t.Fatalf("unexpected data: %v", data)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "session=") {
		t.Fatalf("session cookie missing")
	}
	mustMeet(t, mock)
}

func TestRegisterValidatesPayload(t *testing.T) {
	r, mock := newTestServer(t)
	w := serve(r, http.MethodPost, "/api/auth/register", `{"name":"Jane","email":"jane@example.com","password":"short"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "password must be at least 8" {
		t.Fatalf("unexpected error: %v", got)
	}
	mustMeet(t, mock)
}

func TestProtectedRoutes(t *testing.T) {
	r, mock := newTestServer(t)

	if w := serve(r, http.MethodGet, "/api/user/bookings", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous user area: expected 401, got %d", w.Code)
	}

	expectUser(mock, "g1", domain.RoleGuest, true)
	if w := serve(r, http.MethodGet, "/api/admin/dashboard/stats", "", tokenFor(t, "g1", domain.RoleGuest)); w.Code != http.StatusForbidden {
		t.Fatalf("guest on admin: expected 403, got %d", w.Code)
	}

	expectUser(mock, "a1", domain.RoleAdmin, true)
	if w := serve(r, http.MethodGet, "/api/admin/users", "", tokenFor(t, "a1", domain.RoleAdmin)); w.Code != http.StatusForbidden {
		t.Fatalf("admin on user management: expected 403, got %d", w.Code)
	}

	expectUser(mock, "x1", domain.RoleGuest, false)
	w := serve(r, http.MethodGet, "/api/auth/me", "", tokenFor(t, "x1", domain.RoleGuest))
	if w.Code != http.StatusForbidden || decode(t, w)["error"] != "Account is inactive" {
		t.Fatalf("inactive user: %d %s", w.Code, w.Body.String())
	}
	mustMeet(t, mock)
}

func TestCreateBookingConflict(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()
	expectUser(mock, "g1", domain.RoleGuest, true)
	mock.ExpectQuery(`FROM rooms r WHERE r\.id IN \(\?\)`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow("r1", "Deluxe", nil, nil, 2, int64(12000), "LANDSCAPE", true, true, nil, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM rooms WHERE id IN \(\?\) ORDER BY id FOR UPDATE`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT b\.id\)`).
		WithArgs("r1", "CONFIRMED", "CHECKED_IN", day("2024-03-03"), day("2024-03-01"), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	w := serve(r, http.MethodPost, "/api/user/bookings",
		`{"roomIds":["r1"],"checkIn":"2024-03-01","checkOut":"2024-03-03","paymentMethod":"MPESA"}`,
		tokenFor(t, "g1", domain.RoleGuest))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["error"]; got != "Room is not available for selected dates" {
		t.Fatalf("unexpected error: %v", got)
	}
	mustMeet(t, mock)
}

func TestCreateBookingRejectsRepeatedRooms(t *testing.T) {
	r, mock := newTestServer(t)
	expectUser(mock, "g1", domain.RoleGuest, true)

	w := serve(r, http.MethodPost, "/api/user/bookings",
		`{"roomIds":["r1","r1"],"checkIn":"2024-03-01","checkOut":"2024-03-03"}`,
		tokenFor(t, "g1", domain.RoleGuest))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	mustMeet(t, mock)
}

func TestPasswordResetRoutes(t *testing.T) {
	r, mock := newTestServer(t)

	mock.ExpectQuery(`FROM users WHERE email = \?`).WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	w := serve(r, http.MethodPost, "/api/auth/request-reset", `{"email":"ghost@example.com"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("unknown email: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["token"] != nil || !strings.Contains(body["message"].(string), "If an account") {
		t.Fatalf("unexpected body: %v", body)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM verifications\s+WHERE token_hash = \? AND purpose = \? AND expires_at >= \?`).
		WithArgs(sqlmock.AnyArg(), "PASSWORD_RESET", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "purpose", "token_hash", "expires_at", "created_at"}))
	mock.ExpectRollback()
	w = serve(r, http.MethodPost, "/api/auth/reset-password", `{"token":"stale","newPassword":"newpassword"}`, "")
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Invalid or expired reset token" {
		t.Fatalf("stale token: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/api/auth/reset-password", `{"token":"abc","newPassword":"short"}`, "")
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Password must be at least 8 characters" {
		t.Fatalf("short password: %d %s", w.Code, w.Body.String())
	}
	mustMeet(t, mock)
}

func TestVerifyEmailRoute(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM verifications`).
		WithArgs(sqlmock.AnyArg(), "EMAIL_VERIFY", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "purpose", "token_hash", "expires_at", "created_at"}).
			AddRow("v1", "u1", "EMAIL_VERIFY", "hash", now.Add(time.Hour), now))
	mock.ExpectExec(`DELETE FROM verifications WHERE id = \?`).WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`UPDATE users SET email_verified = 1, updated_at = \? WHERE id = \?`).
		WithArgs(sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 1))

	w := serve(r, http.MethodPost, "/api/auth/verify-email", `{"token":"fresh"}`, "")
	if w.Code != http.StatusOK || decode(t, w)["message"] != "Email verified successfully" {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	mustMeet(t, mock)
}

func TestDeleteRoomWithActiveBookings(t *testing.T) {
	r, mock := newTestServer(t)
	expectUser(mock, "a1", domain.RoleAdmin, true)
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT b\.id\)`).
		WithArgs("r1", "PENDING", "CONFIRMED", "CHECKED_IN").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	w := serve(r, http.MethodDelete, "/api/admin/rooms/r1", "", tokenFor(t, "a1", domain.RoleAdmin))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	mustMeet(t, mock)
}
