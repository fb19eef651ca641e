// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	httpURLPattern  = regexp.MustCompile(`^https?://.+`)
	handlePattern   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	aliasPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

const (
	MinHandleLength = 3
	MaxHandleLength = 20
	MinAliasLength  = 3
	MaxAliasLength  = 20
)

// ValidationError is a ValidationFailed result for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func IsHTTPURL(s string) bool {
	return httpURLPattern.MatchString(s)
}

func IsHandle(s string) bool {
	return len(s) >= MinHandleLength &&
		len(s) <= MaxHandleLength &&
		handlePattern.MatchString(s)
}

func IsAlias(s string) bool {
	return len(s) >= MinAliasLength &&
		len(s) <= MaxAliasLength &&
		aliasPattern.MatchString(s)
}

func ValidateHexColor(field, value string) error {
	if !IsHexColor(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be a 6-digit hex color like #1a2b3c",
		}
	}
	return nil
}

func ValidateHTTPURL(field, value string) error {
	if !IsHTTPURL(value) {
		return &ValidationError{
			Field:   field,
			Message: "must start with http:// or https://",
		}
	}
	return nil
}

func ValidateHandle(field, value string) error {
	if !IsHandle(value) {
		return &ValidationError{
			Field: field,
			Message: fmt.Sprintf(
				"must be %d-%d letters, numbers or underscores",
				MinHandleLength,
				MaxHandleLength,
			),
		}
	}
	return nil
}

func ValidateAlias(field, value string) error {
	if !IsAlias(value) {
		return &ValidationError{
			Field: field,
			Message: fmt.Sprintf(
				"must be %d-%d letters, numbers, underscores or hyphens",
				MinAliasLength,
				MaxAliasLength,
			),
		}
	}
	return nil
}

// NewValidator returns a validator with the domain tags registered:
// hexcolor6, httpurl, handle, alias. Field names in messages use json tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "hexcolor6", IsHexColor)
	mustRegister(v, "httpurl", IsHTTPURL)
	mustRegister(v, "handle", IsHandle)
	mustRegister(v, "alias", IsAlias)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, describeFieldError(fe))
	}

	return strings.Join(messages, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hexcolor6":
		return field + " must be a 6-digit hex color like #1a2b3c"
	case "httpurl":
		return field + " must start with http:// or https://"
	case "handle":
		return field + " must be 3-20 letters, numbers or underscores"
	case "alias":
		return field + " must be 3-20 letters, numbers, underscores or hyphens"
	default:
		return field + " is invalid"
	}
}
