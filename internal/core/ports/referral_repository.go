package ports

import (
	"context"

	"github.com/refhub/referral-service/internal/core/domain"
)

// ReferralFilter narrows a listing. Empty fields apply no restriction.
type ReferralFilter struct {
	OwnerID string
	Status  domain.ReferralStatus
	// Search is a case-insensitive substring matched against job title,
	// status and candidate name.
	Search string
}

// ReferralUpdate lists the stored fields an update overwrites. Nil fields are kept.
type ReferralUpdate struct {
	CandidateName *string
	Email         *string
	Phone         *string
	JobTitle      *string
	ResumeURL     *string
	Status        *domain.ReferralStatus
}

// ReferralRepository defines persistence operations for referrals.
// Every single-record write is atomic; there are no multi-record transactions.
type ReferralRepository interface {
	Create(ctx context.Context, r *domain.Referral) (*domain.Referral, error)
	FindByID(ctx context.Context, id string) (*domain.Referral, error)
	FindByOwnerAndEmail(ctx context.Context, ownerID, email string) (*domain.Referral, error)
	List(ctx context.Context, filter ReferralFilter) ([]*domain.Referral, error)
	// Update applies upd and returns the stored record after the write.
	Update(ctx context.Context, id string, upd ReferralUpdate) (*domain.Referral, error)
	Delete(ctx context.Context, id string) error
	// CountByStatus counts referrals per status; ownerID empty means every owner.
	CountByStatus(ctx context.Context, ownerID string) (map[domain.ReferralStatus]int64, error)
}
