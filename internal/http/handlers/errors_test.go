package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hakheem/sixpoint/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ValidationError{Msg: "Minimum stay is 1 night"}, http.StatusBadRequest, "Minimum stay is 1 night"},
		{domain.UnauthorizedError{}, http.StatusUnauthorized, "authentication required"},
		{domain.ForbiddenError{Msg: "Account is inactive"}, http.StatusForbidden, "Account is inactive"},
		{domain.NotFoundError{Resource: "Room"}, http.StatusNotFound, "Room not found"},
		{domain.ConflictError{Msg: "Room is not available for selected dates"}, http.StatusConflict, "Room is not available for selected dates"},
		{domain.Internal("load rooms", errors.New("connection reset")), http.StatusInternalServerError, "Internal server error"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondDomainError(c, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Success || body.Error != tc.msg {
			t.Fatalf("%v: unexpected body %+v", tc.err, body)
		}
	}
}

func TestQueryMoney(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?minPrice=120.5&maxPrice=-1", nil)

	got, err := queryMoney(c, "minPrice")
	if err != nil || got == nil || *got != 12050 {
		t.Fatalf("minPrice: got=%v err=%v", got, err)
	}
	if _, err := queryMoney(c, "maxPrice"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
	if got, err := queryMoney(c, "capacity"); got != nil || err != nil {
		t.Fatalf("blank value: got=%v err=%v", got, err)
	}
}

func TestPriceRequestMergesExtraKeys(t *testing.T) {
	req, err := priceRequest{
		RoomIDs:         []string{"r1"},
		CheckIn:         "2024-01-01",
		CheckOut:        "2024-01-03",
		ExtraServices:   []string{"s1"},
		ExtraServiceIDs: []string{"s2"},
	}.toModel()
	if err != nil {
		t.Fatalf("toModel error: %v", err)
	}
	if len(req.ExtraServiceIDs) != 2 || req.ExtraServiceIDs[0] != "s1" || req.ExtraServiceIDs[1] != "s2" {
		t.Fatalf("unexpected extras: %v", req.ExtraServiceIDs)
	}
	if _, err := (priceRequest{CheckIn: "01/02/2024"}).toModel(); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
