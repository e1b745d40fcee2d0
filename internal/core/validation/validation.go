// Package validation holds the field rules shared by the HTTP layer and the
// core services. Rules are expressed as go-playground/validator tags so the
// same struct can be checked at either boundary.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/refhub/referral-service/internal/core/domain"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Local parts that look like placeholders rather than a real candidate.
	blockedEmailPrefixes = []string{"test@", "demo@", "admin@", "user@"}
	blockedEmailInfixes  = []string{"123@", "abc@"}
)

// New returns a validator with the custom referral tags registered and
// field names reported by their JSON name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "emailallowed", func(fl validator.FieldLevel) bool {
		return EmailAllowed(fl.Field().String())
	})
	mustRegister(v, "phonedigits", func(fl validator.FieldLevel) bool {
		return len(PhoneDigits(fl.Field().String())) == 10
	})
	mustRegister(v, "phonepattern", func(fl validator.FieldLevel) bool {
		return !DegeneratePhone(PhoneDigits(fl.Field().String()))
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// EmailAllowed reports whether a well-formed address is acceptable for a referral.
func EmailAllowed(email string) bool {
	if !emailRe.MatchString(email) {
		return false
	}
	lower := strings.ToLower(email)
	for _, p := range blockedEmailPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	for _, p := range blockedEmailInfixes {
		if strings.Contains(email, p) {
			return false
		}
	}
	return true
}

// PhoneDigits strips every non-digit from s.
func PhoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// DegeneratePhone reports whether digits is a placeholder number: one digit
// repeated (all zeros and all ones included) or the ascending sequence.
func DegeneratePhone(digits string) bool {
	if digits == "" {
		return false
	}
	if digits == "1234567890" {
		return true
	}
	return strings.Count(digits, digits[:1]) == len(digits)
}

// Check validates s and converts rule failures into a *domain.ValidationError.
func Check(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return &domain.ValidationError{Messages: Messages(ve)}
}

// Messages converts validator failures into the user-facing messages.
func Messages(ve validator.ValidationErrors) []string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

var messages = map[string]string{
	"candidateName.required":   "Candidate name is required",
	"candidateName.min":        "Name must be between 2-50 characters",
	"candidateName.max":        "Name must be between 2-50 characters",
	"candidateName.personname": "Name can only contain letters and spaces",
	"email.required":           "Email is required",
	"email.email":              "Must be a valid email",
	"email.emailallowed":       "Please use a valid email address",
	"phone.required":           "Phone number is required",
	"phone.phonedigits":        "Phone number must be exactly 10 digits",
	"phone.phonepattern":       "Invalid phone number pattern",
	"jobTitle.required":        "Job title is required",
	"jobTitle.min":             "Job title must be between 2-100 characters",
	"jobTitle.max":             "Job title must be between 2-100 characters",
	"name.required":            "Name is required",
	"name.max":                 "Name must be at most 50 characters",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"status.required":          "Status is required",
	"status.oneof":             "Invalid status",
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
