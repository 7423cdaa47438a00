package middleware

import (
	"fitfinder-backend/internal/transport/httpdto"
	fitfinder_errors "fitfinder-backend/pkg/errors"
	"fitfinder-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler reports errors attached with c.Error by handlers that did not
// write a response themselves.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.WithContext(c.Request.Context()).Error("request error", zap.Error(err))
		}
		c.JSON(fitfinder_errors.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), fitfinder_errors.Code(err)))
	}
}
