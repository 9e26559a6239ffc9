package handlers

import (
	"net/http"

	"github.com/Hakheem/sixpoint/internal/http/middleware"
	"github.com/Hakheem/sixpoint/internal/services"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/register
func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.auth(c)
	u, err := svc.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	// the account exists either way; a failed token is already logged and can be re-requested
	token, _ := svc.RequestEmailVerification(c.Request.Context(), u.ID)
	respondOK(c, http.StatusCreated, withDevToken(gin.H{"user": u}, token))
}

// POST /api/auth/login
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.auth(c)
	token, u, err := svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(svc.TokenTTL().Seconds()), "/", "", c.Request.TLS != nil, true)
	respondOK(c, http.StatusOK, gin.H{"token": token, "user": u})
}

// POST /api/auth/logout
func (h Handlers) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/auth/me
func (h Handlers) Me(c *gin.Context) {
	u, err := h.auth(c).CurrentUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u.ToPublic()})
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// withDevToken adds the raw token outside release mode, where no mail is sent.
func withDevToken(body gin.H, token string) gin.H {
	if token != "" && gin.Mode() != gin.ReleaseMode {
		body["token"] = token
	}
	return body
}

// POST /api/auth/request-reset
func (h Handlers) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	token, err := h.auth(c).RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, withDevToken(gin.H{
		"success": true,
		"message": "If an account with that email exists, a password reset link has been sent.",
	}, token))
}

// POST /api/auth/reset-password
func (h Handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.auth(c).ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

// POST /api/auth/request-verification
func (h Handlers) RequestEmailVerification(c *gin.Context) {
	token, err := h.auth(c).RequestEmailVerification(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, withDevToken(gin.H{"success": true, "message": "Verification link sent"}, token))
}

// POST /api/auth/verify-email
func (h Handlers) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.auth(c).VerifyEmail(c.Request.Context(), req.Token); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}
