package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
)

const collectionReferrals = "referrals"

// ReferralRepository implements ports.ReferralRepository using MongoDB.
type ReferralRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewReferralRepository(db *mongo.Database) *ReferralRepository {
	return &ReferralRepository{col: db.Collection(collectionReferrals), now: time.Now}
}

var _ ports.ReferralRepository = (*ReferralRepository)(nil)

type mongoReferral struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CandidateName string             `bson:"candidate_name"`
	Email         string             `bson:"email"`
	Phone         string             `bson:"phone"`
	JobTitle      string             `bson:"job_title"`
	ResumeURL     string             `bson:"resume_url"`
	Status        string             `bson:"status"`
	CreatedBy     string             `bson:"created_by"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (m *mongoReferral) toDomain() *domain.Referral {
	return &domain.Referral{
		ID:            m.ID.Hex(),
		CandidateName: m.CandidateName,
		Email:         m.Email,
		Phone:         m.Phone,
		JobTitle:      m.JobTitle,
		ResumeURL:     m.ResumeURL,
		Status:        domain.ReferralStatus(m.Status),
		OwnerID:       m.CreatedBy,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// Create inserts a referral. The unique (created_by, email) index turns a
// concurrent duplicate into domain.ErrDuplicateReferral.
func (r *ReferralRepository) Create(ctx context.Context, ref *domain.Referral) (*domain.Referral, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoReferral{
		ID:            primitive.NewObjectID(),
		CandidateName: ref.CandidateName,
		Email:         ref.Email,
		Phone:         ref.Phone,
		JobTitle:      ref.JobTitle,
		ResumeURL:     ref.ResumeURL,
		Status:        string(ref.Status),
		CreatedBy:     ref.OwnerID,
		CreatedAt:     ref.CreatedAt.UTC(),
		UpdatedAt:     ref.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateReferral
		}
		return nil, fmt.Errorf("insert referral: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a referral. A malformed id is reported as not found.
func (r *ReferralRepository) FindByID(ctx context.Context, id string) (*domain.Referral, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReferralNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ReferralRepository) FindByOwnerAndEmail(ctx context.Context, ownerID, email string) (*domain.Referral, error) {
	return r.findOne(ctx, bson.M{"created_by": ownerID, "email": email})
}

// List returns the referrals matching filter, newest first.
func (r *ReferralRepository) List(ctx context.Context, f ports.ReferralFilter) ([]*domain.Referral, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find referrals: %w", err)
	}

	var docs []mongoReferral
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode referrals: %w", err)
	}

	out := make([]*domain.Referral, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func listFilter(f ports.ReferralFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["created_by"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"job_title": re},
			bson.M{"status": re},
			bson.M{"candidate_name": re},
		}
	}
	return filter
}

// Update applies the non-nil fields of upd and bumps updated_at in one atomic write.
func (r *ReferralRepository) Update(ctx context.Context, id string, upd ports.ReferralUpdate) (*domain.Referral, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReferralNotFound
	}

	set := bson.M{"updated_at": r.now().UTC()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("candidate_name", upd.CandidateName)
	setIf("email", upd.Email)
	setIf("phone", upd.Phone)
	setIf("job_title", upd.JobTitle)
	setIf("resume_url", upd.ResumeURL)
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoReferral
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrReferralNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateReferral
		}
		return nil, fmt.Errorf("update referral: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReferralRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrReferralNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete referral: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReferralNotFound
	}
	return nil
}

// CountByStatus groups referrals by status, optionally restricted to one owner.
func (r *ReferralRepository) CountByStatus(ctx context.Context, ownerID string) (map[domain.ReferralStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if ownerID != "" {
		match["created_by"] = ownerID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}

	out := make(map[domain.ReferralStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.ReferralStatus(row.Status)] = row.Count
	}
	return out, nil
}

func (r *ReferralRepository) findOne(ctx context.Context, filter bson.M) (*domain.Referral, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoReferral
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReferralNotFound
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the indexes used by the duplicate guard and the listings.
func (r *ReferralRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_owner_email"),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
