package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	pkgauth "github.com/BradenHooton/egaming/pkg/auth"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

var (
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

// ValidationErrorResponse represents a validation error with field-level details
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"password": func(fl validator.FieldLevel) bool {
			return pkgauth.ValidatePassword(fl.Field().String()) == nil
		},
		"phone": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		},
		"otp": func(fl validator.FieldLevel) bool {
			return otpPattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}

	return v
}

// ValidateRequest validates a request struct and returns the field failures
func ValidateRequest(req any) []ValidationErrorResponse {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []ValidationErrorResponse{{Message: err.Error()}}
	}

	out := make([]ValidationErrorResponse, 0, len(ve))
	for _, fe := range ve {
		out = append(out, ValidationErrorResponse{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return out
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "password":
		return "must be at least 8 characters and contain an uppercase letter, a lowercase letter and a digit"
	case "phone":
		return "must be a valid phone number"
	case "otp":
		return "must be a 6-digit code"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.Int {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

func formatDetails(errs []ValidationErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Field == "" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// the error response has been written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}

	if errs := ValidateRequest(dst); len(errs) > 0 {
		pkghttp.WriteValidationError(w, formatDetails(errs))
		return false
	}
	return true
}
