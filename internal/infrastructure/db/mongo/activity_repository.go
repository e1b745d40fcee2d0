package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

const collectionActivity = "referral_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

type mongoActivity struct {
	ReferralID string    `bson:"referral_id"`
	ActorID    string    `bson:"actor_id"`
	ActorRole  string    `bson:"actor_role"`
	Action     string    `bson:"action"`
	Status     string    `bson:"status,omitempty"`
	Fields     []string  `bson:"fields,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// Insert persists a single activity entry to the audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.ReferralActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		ReferralID: a.ReferralID,
		ActorID:    a.ActorID,
		ActorRole:  a.ActorRole.String(),
		Action:     string(a.Action),
		Status:     string(a.Status),
		Fields:     a.Fields,
		OccurredAt: a.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByReferral returns the trail of a referral, oldest first.
func (r *ActivityRepository) ListByReferral(ctx context.Context, referralID string) ([]domain.ReferralActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"referral_id": referralID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}

	var docs []mongoActivity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	return decodeActivity(docs), nil
}

// decodeActivity maps stored entries to the domain, skipping records whose
// actor role no longer parses.
func decodeActivity(docs []mongoActivity) []domain.ReferralActivity {
	out := make([]domain.ReferralActivity, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			metrics.ActivityErrorsTotal.WithLabelValues("invalid_record").Inc()
			continue
		}
		out = append(out, a)
	}
	return out
}

func (d mongoActivity) toDomain() (domain.ReferralActivity, error) {
	role, err := domain.ParseRole(d.ActorRole)
	if err != nil {
		return domain.ReferralActivity{}, fmt.Errorf("activity for %s: %w", d.ReferralID, err)
	}
	return domain.ReferralActivity{
		ReferralID: d.ReferralID,
		ActorID:    d.ActorID,
		ActorRole:  role,
		Action:     domain.ActivityAction(d.Action),
		Status:     domain.ReferralStatus(d.Status),
		Fields:     d.Fields,
		OccurredAt: d.OccurredAt.UTC(),
	}, nil
}

// EnsureIndexes creates the lookup index on the activity collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "referral_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}
