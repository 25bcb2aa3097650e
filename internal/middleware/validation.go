package middleware

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

// QueryValidator validates query parameters decoded into a struct. Field
// names in errors come from the `query` tag.
type QueryValidator struct {
	validator *validator.Validate
}

// NewQueryValidator creates a new query validator
func NewQueryValidator() *QueryValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &QueryValidator{validator: v}
}

// Validate checks s and returns the first failure as a 400 APIError
func (v *QueryValidator) Validate(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.ErrValidation("query", err.Error())
	}
	// dive errors name the element, e.g. allowed[2]
	fe := fieldErrs[0]
	return apperrors.ErrValidation(fe.Field(), formatValidationError(fe))
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// QueryList reads a comma separated parameter, also accepting the parameter
// repeated. Blank entries are dropped; order and duplicates are kept.
func QueryList(values url.Values, param string) []string {
	var out []string
	for _, raw := range values[param] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
