package ports

import (
	"context"
	"time"

	"github.com/refhub/referral-service/internal/core/domain"
)

// CreateReferralInput carries everything needed to submit a referral.
type CreateReferralInput struct {
	Fields domain.ReferralFields
	Resume *domain.ResumeFile
}

// UpdateReferralInput carries a partial update and an optional replacement resume.
type UpdateReferralInput struct {
	Patch  domain.ReferralPatch
	Resume *domain.ResumeFile
}

// ListReferralsInput carries the optional listing filters.
type ListReferralsInput struct {
	Status string
	Search string
}

// ReferralView is a referral with its owner projection attached.
type ReferralView struct {
	ID            string                `json:"id"`
	CandidateName string                `json:"candidateName"`
	Email         string                `json:"email"`
	Phone         string                `json:"phone"`
	JobTitle      string                `json:"jobTitle"`
	ResumeURL     string                `json:"resumeUrl"`
	Status        domain.ReferralStatus `json:"status"`
	CreatedBy     domain.AccountSummary `json:"createdBy"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ReferralSummary counts referrals per status.
type ReferralSummary struct {
	Total    int64                           `json:"total"`
	ByStatus map[domain.ReferralStatus]int64 `json:"byStatus"`
}

// ReferralService is the referral lifecycle: every operation resolves the
// access policy for actor before touching the store.
type ReferralService interface {
	Create(ctx context.Context, actor domain.Principal, input CreateReferralInput) (*ReferralView, error)
	Get(ctx context.Context, actor domain.Principal, id string) (*ReferralView, error)
	ListOwn(ctx context.Context, actor domain.Principal, input ListReferralsInput) ([]ReferralView, error)
	ListAll(ctx context.Context, actor domain.Principal, input ListReferralsInput) ([]ReferralView, error)
	UpdateFields(ctx context.Context, actor domain.Principal, id string, input UpdateReferralInput) (*ReferralView, error)
	UpdateStatus(ctx context.Context, actor domain.Principal, id string, status string) (*ReferralView, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	ResumeReference(ctx context.Context, actor domain.Principal, id string) (string, error)
	Summary(ctx context.Context, actor domain.Principal) (*ReferralSummary, error)
	Activity(ctx context.Context, actor domain.Principal, id string) ([]domain.ReferralActivity, error)
}
