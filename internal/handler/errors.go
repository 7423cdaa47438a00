package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"fitfinder-backend/internal/transport/httpdto"
	fitfinder_errors "fitfinder-backend/pkg/errors"
	"fitfinder-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// Report wire names (user_email, lat) instead of Go field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireName)
	}
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// bindError converts a gin binding failure into a ValidationError with
// one entry per rejected field.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		verr := &fitfinder_errors.ValidationError{}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, fitfinder_errors.FieldError{
				Field:   fe.Field(),
				Message: describe(fe),
			})
		}
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fitfinder_errors.NewValidationError(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	return fitfinder_errors.NewValidationError("body", "malformed request")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// writeError renders err in the error envelope with the status HTTPStatus
// assigns to it.
func writeError(c *gin.Context, err error) {
	status := fitfinder_errors.HTTPStatus(err)
	code := fitfinder_errors.Code(err)
	message := err.Error()
	var details any

	var (
		verr     *fitfinder_errors.ValidationError
		upstream *fitfinder_errors.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		message = fitfinder_errors.ErrInvalidInput.Error()
		details = verr.Fields
	case errors.As(err, &upstream):
		if upstream.StatusCode == 0 {
			message = "places provider request failed"
		} else {
			message = fmt.Sprintf("places provider returned status %d", upstream.StatusCode)
			details = gin.H{
				"provider_status": upstream.StatusCode,
				"provider_error":  upstream.Body,
			}
		}
	case errors.Is(err, fitfinder_errors.ErrPlacesStore):
		message = fitfinder_errors.ErrPlacesStore.Error()
	case status == http.StatusInternalServerError:
		message = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		logger.GetGlobalLogger().WithContext(c.Request.Context()).Error("request failed",
			zap.Error(err), zap.Int("status", status))
	}

	if details != nil {
		c.JSON(status, httpdto.NewErrorResponseWithDetails(message, code, details))
		return
	}
	c.JSON(status, httpdto.NewErrorResponse(message, code))
}
