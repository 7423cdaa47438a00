// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"net/http"

	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/middleware"
	"fitfinder-backend/internal/services"
	"fitfinder-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// CookieConfig holds the deployment-specific attributes of the session cookie.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
	cookies CookieConfig
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// Register creates a regular user account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	res, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   user.Gender(req.Gender),
		Role:     user.RoleUser,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, res.AccessToken)
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.RegisterResponse{
		UserID:       res.User.ID,
		UserUsername: res.User.Username,
		UserEmail:    res.User.Email,
		AccessToken:  res.AccessToken,
		TokenType:    httpdto.TokenTypeBearer,
	}))
}

// Login accepts JSON or form-encoded credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, res.AccessToken)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageResponse{Message: "Login successful"}))
}

// Logout clears the session cookie. The token itself stays valid until it
// expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageResponse{Message: "Logout successful"}))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(middleware.AccessTokenCookie, token, h.service.TokenTTL(), "/", h.cookies.Domain, h.cookies.Secure, true)
}
