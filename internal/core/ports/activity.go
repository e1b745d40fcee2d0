package ports

import (
	"context"

	"github.com/refhub/referral-service/internal/core/domain"
)

// ActivityRepository persists the referral activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.ReferralActivity) error
	ListByReferral(ctx context.Context, referralID string) ([]domain.ReferralActivity, error)
}

// ActivityPublisher accepts activity records for asynchronous persistence.
type ActivityPublisher interface {
	Publish(a domain.ReferralActivity)
}

// ActivityService records a single activity entry.
type ActivityService interface {
	Record(ctx context.Context, a domain.ReferralActivity) error
}
