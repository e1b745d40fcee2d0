package ports

import (
	"context"

	"github.com/refhub/referral-service/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthService registers accounts, issues session tokens and verifies them.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Verify(token string) (domain.Principal, error)
}
