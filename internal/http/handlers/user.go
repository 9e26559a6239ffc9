package handlers

import (
	"net/http"

	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type bookingRequest struct {
	priceRequest
	PaymentMethod string `json:"paymentMethod"`
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// GET /api/user/profile
func (h Handlers) GetProfile(c *gin.Context) {
	u, err := h.auth(c).CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u.ToPublic())
}

// PUT /api/user/profile
func (h Handlers) UpdateProfile(c *gin.Context) {
	var body profileRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	u, err := h.auth(c).UpdateProfile(c.Request.Context(), currentUserID(c), body.Name, body.Phone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u.ToPublic())
}

// GET /api/user/bookings
func (h Handlers) ListMyBookings(c *gin.Context) {
	list, err := h.bookings(c).ListUserBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, list)
}

// GET /api/user/bookings/:id
func (h Handlers) GetMyBooking(c *gin.Context) {
	b, err := h.bookings(c).GetUserBooking(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// POST /api/user/bookings
func (h Handlers) CreateBooking(c *gin.Context) {
	var body bookingRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	req, err := body.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	b, quote, err := h.bookings(c).CreateBooking(c.Request.Context(), currentUserID(c), models.BookingRequest{
		PriceRequest:  req,
		PaymentMethod: models.PaymentMethod(body.PaymentMethod),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"booking": b, "pricing": quote})
}

// PATCH /api/user/bookings/:id/cancel
func (h Handlers) CancelMyBooking(c *gin.Context) {
	b, err := h.bookings(c).CancelBooking(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// GET /api/user/bookings/:id/invoice
func (h Handlers) BookingInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.bookings(c).GetUserBooking(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := h.docs(c).GenerateInvoice(ctx, b, c.GetString(middleware.UserNameKey))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPDF(c, pdf, filename)
}

// GET /api/user/reviews
func (h Handlers) ListMyReviews(c *gin.Context) {
	list, err := h.reviews(c).ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, list)
}

// POST /api/user/reviews
func (h Handlers) CreateReview(c *gin.Context) {
	var body models.ReviewInput
	if !BindJSONOrError(c, &body) {
		return
	}
	v, err := h.reviews(c).Create(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, v)
}
