package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/refhub/referral-service/internal/core/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// It shares the custom referral tags with the core services.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Rule failures come back as
// a *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	return validation.Check(ev.v, i)
}
