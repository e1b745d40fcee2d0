// Package jobs holds the periodic background tasks of the service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

const (
	DefaultStatusSchedule = "@every 1m"
	refreshTimeout        = 10 * time.Second
)

// StatusCounter is the slice of the referral store the gauge refresher reads.
type StatusCounter interface {
	CountByStatus(ctx context.Context, ownerID string) (map[domain.ReferralStatus]int64, error)
}

// StatusGauge keeps referral_referrals_by_status in line with the store.
type StatusGauge struct {
	counter StatusCounter
	log     zerolog.Logger
}

func NewStatusGauge(counter StatusCounter, log zerolog.Logger) *StatusGauge {
	return &StatusGauge{counter: counter, log: log.With().Str("job", "status_gauge").Logger()}
}

// Refresh reads the per-status totals across every owner and sets the gauge.
// Statuses with no referrals are reported as zero.
func (g *StatusGauge) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	counts, err := g.counter.CountByStatus(ctx, "")
	if err != nil {
		return fmt.Errorf("refresh status gauge: %w", err)
	}
	for _, st := range domain.Statuses {
		metrics.ReferralsByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
	return nil
}

// Run is the cron entry point; failures are logged and retried on the next tick.
func (g *StatusGauge) Run() {
	if err := g.Refresh(context.Background()); err != nil {
		g.log.Warn().Err(err).Msg("status gauge refresh failed")
	}
}

// Schedule registers the jobs on a new cron scheduler. The caller starts and
// stops it.
func Schedule(spec string, gauge *StatusGauge) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultStatusSchedule
	}
	c := cron.New()
	if _, err := c.AddJob(spec, gauge); err != nil {
		return nil, fmt.Errorf("schedule status gauge %q: %w", spec, err)
	}
	return c, nil
}
