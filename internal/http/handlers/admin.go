package handlers

import (
	"net/http"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const usersDefaultLimit = 10

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type visibilityRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=GUEST ADMIN SUPERADMIN"`
}

// GET /api/admin/dashboard/stats
func (h Handlers) DashboardStats(c *gin.Context) {
	stats, err := h.admin(c).DashboardStats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// POST /api/admin/rooms
func (h Handlers) CreateRoom(c *gin.Context) {
	var body models.RoomInput
	if !BindJSONOrError(c, &body) {
		return
	}
	room, err := h.admin(c).CreateRoom(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, room)
}

// PUT /api/admin/rooms/:id
func (h Handlers) UpdateRoom(c *gin.Context) {
	var body models.RoomInput
	if !BindJSONOrError(c, &body) {
		return
	}
	room, err := h.admin(c).UpdateRoom(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, room)
}

// DELETE /api/admin/rooms/:id
func (h Handlers) DeleteRoom(c *gin.Context) {
	if err := h.admin(c).DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Room deleted"})
}

// GET /api/admin/bookings?status=
func (h Handlers) ListBookings(c *gin.Context) {
	status := models.BookingStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	list, page, err := h.bookings(c).ListBookings(c.Request.Context(), status, pageFromQuery(c, roomsDefaultLimit))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, list, page)
}

// PATCH /api/admin/bookings/:id/status
func (h Handlers) UpdateBookingStatus(c *gin.Context) {
	var body statusRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	status := models.BookingStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	b, err := h.bookings(c).UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// PATCH /api/admin/reviews/:id/visibility
func (h Handlers) SetReviewVisibility(c *gin.Context) {
	var body visibilityRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	id := c.Param("id")
	if err := h.reviews(c).SetVisibility(c.Request.Context(), id, *body.Hidden); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "hidden": *body.Hidden})
}

// PUT /api/admin/site-config
func (h Handlers) SaveSiteConfig(c *gin.Context) {
	var body models.SiteConfig
	if !BindJSONOrError(c, &body) {
		return
	}
	cfg, err := h.admin(c).SaveSiteConfig(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cfg)
}

// GET /api/admin/users?role=&search=
func (h Handlers) ListUsers(c *gin.Context) {
	filter := models.UserFilter{
		Role:   domain.Role(strings.ToUpper(strings.TrimSpace(c.Query("role")))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	users, page, err := h.admin(c).ListUsers(c.Request.Context(), filter, pageFromQuery(c, usersDefaultLimit))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, users, page)
}

// PUT /api/admin/users/:id/role
func (h Handlers) UpdateUserRole(c *gin.Context) {
	var body roleRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	u, err := h.admin(c).UpdateUserRole(c.Request.Context(), currentUserID(c), c.Param("id"), domain.Role(body.Role))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u)
}

// PATCH /api/admin/users/:id/toggle-status
func (h Handlers) ToggleUserStatus(c *gin.Context) {
	u, err := h.admin(c).ToggleUserStatus(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u)
}

// DELETE /api/admin/users/:id
func (h Handlers) DeleteUser(c *gin.Context) {
	if err := h.admin(c).DeleteUser(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "User deleted"})
}
