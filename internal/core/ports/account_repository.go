package ports

import (
	"context"

	"github.com/refhub/referral-service/internal/core/domain"
)

// AccountRepository defines persistence for registered accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByIDs returns the accounts that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Account, error)
}
