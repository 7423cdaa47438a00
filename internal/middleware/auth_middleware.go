package middleware

import (
	"context"
	"net/http"

	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/services"
	"fitfinder-backend/internal/transport/httpdto"
	fitfinder_errors "fitfinder-backend/pkg/errors"
	"fitfinder-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessTokenCookie carries the session token between browser and API.
const AccessTokenCookie = "access_token"

const currentUserKey = "current_user"

// AuthMiddleware resolves the access_token cookie to a user and stores it on
// the request. Every failure is reported as 401.
func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(AccessTokenCookie)

		u, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(currentUserKey, u)
		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, u.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, fitfinder_errors.ErrNotAuthenticated)
			return
		}
		if err := services.Authorize(u, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, httpdto.NewErrorResponse("insufficient role", "FORBIDDEN"))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (user.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := value.(user.User)
	return u, ok
}

func abortUnauthorized(c *gin.Context, err error) {
	status := fitfinder_errors.HTTPStatus(err)
	if status != http.StatusUnauthorized {
		// Store failures while loading the user are not credential problems.
		logger.GetGlobalLogger().WithContext(c.Request.Context()).Error("authentication failed", zap.Error(err))
		c.AbortWithStatusJSON(status, httpdto.NewErrorResponse("internal server error", fitfinder_errors.Code(err)))
		return
	}
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Could not validate credentials", "UNAUTHORIZED"))
}
