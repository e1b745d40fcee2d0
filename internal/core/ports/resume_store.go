package ports

import (
	"context"

	"github.com/refhub/referral-service/internal/core/domain"
)

// ResumeStore hands resume bytes to the external asset host and returns the
// URL the content can be fetched from. Old assets are never deleted.
type ResumeStore interface {
	Upload(ctx context.Context, file domain.ResumeFile) (string, error)
}
