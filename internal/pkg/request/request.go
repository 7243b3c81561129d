// Package request binds JSON bodies and maps binding failures to apperr codes.
package request

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aben/console/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes and validates the body into dst. Validation failures map
// to VALIDATION_ERROR, anything else (empty body included) to BAD_JSON.
func BindJSON(c *gin.Context, dst any) error {
	return classify(c.ShouldBindJSON(dst), false)
}

// BindOptionalJSON is BindJSON that accepts an empty body.
func BindOptionalJSON(c *gin.Context, dst any) error {
	return classify(c.ShouldBindJSON(dst), true)
}

// BindQuery decodes and validates query parameters into dst. Every failure
// maps to VALIDATION_ERROR.
func BindQuery(c *gin.Context, dst any) error {
	err := c.ShouldBindQuery(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation(describe(verrs))
	}
	return apperr.Validation("Invalid query parameters")
}

func classify(err error, allowEmpty bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return apperr.ErrBadJSON
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation(describe(verrs))
	}
	return apperr.ErrBadJSON
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "email":
			parts = append(parts, field+" must be a valid email")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
