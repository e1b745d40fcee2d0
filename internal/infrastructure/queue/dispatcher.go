package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes activity records to a fixed set of workers using
// consistent hashing on the referral id, so the trail of one referral is
// persisted in publication order.
type Dispatcher struct {
	workers []chan domain.ReferralActivity
	service ports.ActivityService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.ActivityPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ReferralActivity, numWorkers),
		service: service,
		log:     log.With().Str("component", "activity_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReferralActivity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after Close, once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands a record to the worker responsible for its referral. It never
// blocks: when that worker's queue is full the record is dropped.
func (d *Dispatcher) Publish(a domain.ReferralActivity) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(a, "closed")
		return
	}

	idx := d.shardIndex(a.ReferralID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(a, "queue_full")
	}
}

// Close stops accepting records and waits for the workers to drain their
// queues, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(a domain.ReferralActivity, reason string) {
	metrics.ActivityErrorsTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("referral_id", a.ReferralID).
		Str("action", string(a.Action)).
		Str("reason", reason).
		Msg("activity dropped")
}

// shardIndex maps a referral id deterministically to a worker index.
func (d *Dispatcher) shardIndex(referralID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(referralID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ReferralActivity) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			start := time.Now()
			if err := d.service.Record(ctx, a); err != nil {
				d.log.Error().Err(err).
					Str("referral_id", a.ReferralID).
					Int("worker_id", id).
					Msg("activity processing failed")
				continue
			}
			metrics.ActivityProcessingDuration.WithLabelValues(string(a.Action)).Observe(time.Since(start).Seconds())
		}
	}
}
