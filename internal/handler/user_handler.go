package handler

import (
	"net/http"

	"fitfinder-backend/internal/middleware"
	"fitfinder-backend/internal/transport/httpdto"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the profile of the user the session cookie belongs to.
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		writeError(c, fitfinder_errors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewUserResponse(u)))
}
