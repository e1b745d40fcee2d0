package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID   map[string]*domain.Account
	nextID int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.nextID++
	stored := cloneAccount(a)
	stored.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Account, error) {
	out := make(map[string]*domain.Account, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out[id] = cloneAccount(a)
		}
	}
	return out, nil
}

// seed stores an account directly and returns its principal.
func (r *stubAccountRepo) seed(name string, role domain.Role) domain.Principal {
	r.nextID++
	id := fmt.Sprintf("acc-%d", r.nextID)
	r.byID[id] = &domain.Account{
		ID:    id,
		Name:  name,
		Email: strings.ToLower(name) + "@corp.io",
		Role:  role,
	}
	return domain.Principal{AccountID: id, Role: role}
}

type stubReferralRepo struct {
	byID      map[string]*domain.Referral
	nextID    int
	createErr error
	listErr   error
	skipCheck bool // when set, FindByOwnerAndEmail never finds anything (simulates a lost race)
}

func newStubReferralRepo() *stubReferralRepo {
	return &stubReferralRepo{byID: make(map[string]*domain.Referral)}
}

func cloneReferral(r *domain.Referral) *domain.Referral {
	clone := *r
	return &clone
}

func (r *stubReferralRepo) Create(_ context.Context, ref *domain.Referral) (*domain.Referral, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	// Mirrors the unique (created_by, email) index.
	for _, existing := range r.byID {
		if existing.OwnerID == ref.OwnerID && existing.Email == ref.Email {
			return nil, domain.ErrDuplicateReferral
		}
	}
	r.nextID++
	stored := cloneReferral(ref)
	stored.ID = fmt.Sprintf("ref-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneReferral(stored), nil
}

func (r *stubReferralRepo) FindByID(_ context.Context, id string) (*domain.Referral, error) {
	ref, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrReferralNotFound
	}
	return cloneReferral(ref), nil
}

func (r *stubReferralRepo) FindByOwnerAndEmail(_ context.Context, ownerID, email string) (*domain.Referral, error) {
	if !r.skipCheck {
		for _, ref := range r.byID {
			if ref.OwnerID == ownerID && ref.Email == email {
				return cloneReferral(ref), nil
			}
		}
	}
	return nil, domain.ErrReferralNotFound
}

func (r *stubReferralRepo) List(_ context.Context, f ports.ReferralFilter) ([]*domain.Referral, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Referral
	for _, ref := range r.byID {
		if f.OwnerID != "" && ref.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && ref.Status != f.Status {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(ref.JobTitle), q) &&
				!strings.Contains(strings.ToLower(string(ref.Status)), q) &&
				!strings.Contains(strings.ToLower(ref.CandidateName), q) {
				continue
			}
		}
		out = append(out, cloneReferral(ref))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubReferralRepo) Update(_ context.Context, id string, upd ports.ReferralUpdate) (*domain.Referral, error) {
	ref, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrReferralNotFound
	}
	if upd.CandidateName != nil {
		ref.CandidateName = *upd.CandidateName
	}
	if upd.Email != nil {
		ref.Email = *upd.Email
	}
	if upd.Phone != nil {
		ref.Phone = *upd.Phone
	}
	if upd.JobTitle != nil {
		ref.JobTitle = *upd.JobTitle
	}
	if upd.ResumeURL != nil {
		ref.ResumeURL = *upd.ResumeURL
	}
	if upd.Status != nil {
		ref.Status = *upd.Status
	}
	return cloneReferral(ref), nil
}

func (r *stubReferralRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrReferralNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubReferralRepo) CountByStatus(_ context.Context, ownerID string) (map[domain.ReferralStatus]int64, error) {
	out := make(map[domain.ReferralStatus]int64)
	for _, ref := range r.byID {
		if ownerID != "" && ref.OwnerID != ownerID {
			continue
		}
		out[ref.Status]++
	}
	return out, nil
}

type stubResumeStore struct {
	uploads []domain.ResumeFile
	err     error
}

func (s *stubResumeStore) Upload(_ context.Context, f domain.ResumeFile) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads = append(s.uploads, f)
	return fmt.Sprintf("https://assets.example.com/resumes/%d.pdf", len(s.uploads)), nil
}

type stubActivityRepo struct {
	entries   []domain.ReferralActivity
	insertErr error
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.ReferralActivity) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, *a)
	return nil
}

func (r *stubActivityRepo) ListByReferral(_ context.Context, referralID string) ([]domain.ReferralActivity, error) {
	var out []domain.ReferralActivity
	for _, e := range r.entries {
		if e.ReferralID == referralID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubPublisher struct {
	published []domain.ReferralActivity
}

func (p *stubPublisher) Publish(a domain.ReferralActivity) {
	p.published = append(p.published, a)
}

func (p *stubPublisher) actions() []domain.ActivityAction {
	out := make([]domain.ActivityAction, len(p.published))
	for i, a := range p.published {
		out[i] = a.Action
	}
	return out
}
