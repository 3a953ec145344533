// Package validation turns go-playground/validator failures into the
// field-keyed error maps returned to API clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinNameLen = 3
	MaxNameLen = 32
)

// EmailPattern is deliberately lenient: something@something.something.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a JSON field name to a human readable message. All violations
// found in one pass are reported together.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a validator that reports JSON field names and knows the
// "lenientemail" and "name" tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("lenientemail", func(fl validator.FieldLevel) bool {
		return EmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("name", func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	})
	return v
}

// Struct validates payload and returns Errors when any field fails.
func Struct(v *validator.Validate, payload any) error {
	if v == nil {
		return nil
	}
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "lenientemail", "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "name":
		return fmt.Sprintf("%s must be between %d and %d characters", field, MinNameLen, MaxNameLen)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ValidEmail reports whether email has the accepted shape.
func ValidEmail(email string) bool {
	return EmailPattern.MatchString(strings.TrimSpace(email))
}

// ValidName reports whether a handle or username fits the profile length bounds.
func ValidName(name string) bool {
	n := len([]rune(strings.TrimSpace(name)))
	return n >= MinNameLen && n <= MaxNameLen
}
