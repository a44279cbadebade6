package ui

import (
	"net/http"

	"tribunal/app"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes login and profile endpoints.
type AuthHandler struct {
	auth *app.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Phone    string  `json:"phone" binding:"required"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// Login authenticates by phone, registering on first contact.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "phone is required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Phone, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
