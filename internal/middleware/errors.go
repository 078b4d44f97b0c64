// Package middleware holds the cross-cutting Gin handlers: the error
// envelope, bearer-token auth, and per-IP rate limiting.
package middleware

import (
	"errors"
	"log"

	"farmland-portal/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorHandler converts errors attached to the context into the JSON error
// envelope. Handlers call c.Error(err) and return; this runs after them and
// writes exactly one response. Internal causes are logged, never serialized.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ae := translate(err)

		if ae.Status >= 500 {
			log.Printf("[http] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		c.JSON(ae.Status, ae)
	}
}

// translate maps any error to the typed envelope. Gin binding failures
// surface validator details field by field.
func translate(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperr.FieldDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperr.FieldDetail{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return apperr.Validation("Request validation failed", details...)
	}

	return apperr.From(err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short or too small (min " + fe.Param() + ")"
	case "max":
		return "too long or too large (max " + fe.Param() + ")"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}

// BindError wraps a request decoding failure as a validation error so raw
// parser messages never reach the client verbatim.
func BindError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return translate(err)
	}
	return apperr.Validation("Invalid request body")
}
