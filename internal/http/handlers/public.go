package handlers

import (
	"net/http"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/services"

	"github.com/gin-gonic/gin"
)

const roomsDefaultLimit = 10

// priceRequest accepts extras under either key.
type priceRequest struct {
	RoomIDs         []string `json:"roomIds"`
	CheckIn         string   `json:"checkIn"`
	CheckOut        string   `json:"checkOut"`
	ExtraServices   []string `json:"extraServices"`
	ExtraServiceIDs []string `json:"extraServiceIds"`
}

func (p priceRequest) toModel() (models.PriceRequest, error) {
	in, err := parseDateField("checkIn", p.CheckIn)
	if err != nil {
		return models.PriceRequest{}, err
	}
	out, err := parseDateField("checkOut", p.CheckOut)
	if err != nil {
		return models.PriceRequest{}, err
	}
	return models.PriceRequest{
		RoomIDs:         p.RoomIDs,
		CheckIn:         in,
		CheckOut:        out,
		ExtraServiceIDs: append(append([]string{}, p.ExtraServices...), p.ExtraServiceIDs...),
	}, nil
}

// GET /api/public/rooms
func (h Handlers) ListRooms(c *gin.Context) {
	minPrice, err := queryMoney(c, "minPrice")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	maxPrice, err := queryMoney(c, "maxPrice")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	filter := models.RoomFilter{
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Capacity:  queryInt(c, "capacity", 0),
		TypeID:    strings.TrimSpace(c.Query("typeId")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	rooms, page, err := h.catalog(c).ListRooms(c.Request.Context(), filter, pageFromQuery(c, roomsDefaultLimit))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, rooms, page)
}

// GET /api/public/rooms/:id
func (h Handlers) GetRoom(c *gin.Context) {
	room, err := h.catalog(c).RoomDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, room)
}

// GET /api/public/rooms/:id/availability?checkIn=&checkOut=
func (h Handlers) CheckAvailability(c *gin.Context) {
	checkIn, err := parseDateField("checkIn", c.Query("checkIn"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	checkOut, err := parseDateField("checkOut", c.Query("checkOut"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.availability(c).CheckAvailability(c.Request.Context(), c.Param("id"), checkIn, checkOut)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	msg := "Room is available"
	if !res.Available {
		msg = "Room is not available for selected dates"
	}
	respondOK(c, http.StatusOK, gin.H{
		"isAvailable":         res.Available,
		"message":             msg,
		"conflictingBookings": res.ConflictCount,
	})
}

// POST /api/public/calculate-price
func (h Handlers) CalculatePrice(c *gin.Context) {
	var body priceRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	req, err := body.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	quote, err := h.pricing(c).CalculatePrice(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, quote)
}

// POST /api/public/calculate-price/pdf
func (h Handlers) QuotePDF(c *gin.Context) {
	var body priceRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	req, err := body.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := h.docs(c).GenerateQuote(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPDF(c, pdf, filename)
}

func (h Handlers) FeaturedRooms(c *gin.Context) {
	rooms, err := h.catalog(c).FeaturedRooms(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, rooms)
}

func (h Handlers) RoomTypes(c *gin.Context) {
	out, err := h.catalog(c).RoomTypes(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (h Handlers) Amenities(c *gin.Context) {
	out, err := h.catalog(c).Amenities(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (h Handlers) ExtraServices(c *gin.Context) {
	out, err := h.catalog(c).ExtraServices(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (h Handlers) VisitPlaces(c *gin.Context) {
	out, err := h.catalog(c).VisitPlaces(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (h Handlers) SiteConfig(c *gin.Context) {
	cfg, err := h.catalog(c).SiteConfig(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cfg)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// POST /api/public/contact
func (h Handlers) Contact(c *gin.Context) {
	var body contactRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	msg, err := h.catalog(c).SubmitContact(c.Request.Context(), services.ContactMessage{
		Name:    body.Name,
		Email:   body.Email,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for contacting us. We will get back to you soon.",
		"data":    msg,
	})
}
