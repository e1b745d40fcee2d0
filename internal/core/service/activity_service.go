package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists a single activity entry.
func (s *activityService) Record(ctx context.Context, a domain.ReferralActivity) error {
	if a.ReferralID == "" || a.Action == "" {
		return fmt.Errorf("record activity: incomplete entry (referral %q, action %q)", a.ReferralID, a.Action)
	}

	if err := s.repo.Insert(ctx, &a); err != nil {
		metrics.ActivityErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record activity: %w", err)
	}

	metrics.ActivityRecordedTotal.WithLabelValues(string(a.Action)).Inc()
	s.log.Debug().
		Str("referral_id", a.ReferralID).
		Str("action", string(a.Action)).
		Str("actor_id", a.ActorID).
		Msg("activity recorded")
	return nil
}
