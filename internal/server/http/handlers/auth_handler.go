package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/dto"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "name, email, password and role are required")
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ProfileResponse{User: toIdentityResponse(CurrentIdentity(c))})
}
