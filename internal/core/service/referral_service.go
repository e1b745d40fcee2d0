package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/core/validation"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

// DefaultMaxResumeBytes is the largest resume accepted when none is configured.
const DefaultMaxResumeBytes = 5 << 20

// ReferralDeps groups the collaborators of ReferralService.
type ReferralDeps struct {
	Referrals ports.ReferralRepository
	Accounts  ports.AccountRepository
	Resumes   ports.ResumeStore
	Activity  ports.ActivityRepository
	Publisher ports.ActivityPublisher
	// MaxResumeBytes defaults to DefaultMaxResumeBytes when zero.
	MaxResumeBytes int64
}

// ReferralService implements ports.ReferralService.
type ReferralService struct {
	referrals      ports.ReferralRepository
	accounts       ports.AccountRepository
	resumes        ports.ResumeStore
	activity       ports.ActivityRepository
	publisher      ports.ActivityPublisher
	maxResumeBytes int64
	validate       *validator.Validate
	logger         zerolog.Logger
	now            func() time.Time
}

func NewReferralService(deps ReferralDeps, logger zerolog.Logger) *ReferralService {
	maxBytes := deps.MaxResumeBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResumeBytes
	}
	return &ReferralService{
		referrals:      deps.Referrals,
		accounts:       deps.Accounts,
		resumes:        deps.Resumes,
		activity:       deps.Activity,
		publisher:      deps.Publisher,
		maxResumeBytes: maxBytes,
		validate:       validation.New(),
		logger:         logger,
		now:            time.Now,
	}
}

// Create submits a new referral owned by actor. Validation, authorization and
// the duplicate guard all run before the resume leaves the process.
func (s *ReferralService) Create(ctx context.Context, actor domain.Principal, input ports.CreateReferralInput) (*ports.ReferralView, error) {
	if err := s.authorize(actor, actor.AccountID, domain.ActionCreate); err != nil {
		return nil, err
	}
	if input.Resume == nil {
		return nil, domain.NewValidationError("Resume is required")
	}

	fields := trimFields(input.Fields)
	if err := validation.Check(s.validate, fields); err != nil {
		return nil, err
	}
	if err := s.checkResume(input.Resume); err != nil {
		return nil, err
	}
	fields.Email = normalizeEmail(fields.Email)
	fields.Phone = validation.PhoneDigits(fields.Phone)

	if err := s.ensureUnique(ctx, actor.AccountID, fields.Email, ""); err != nil {
		return nil, err
	}

	owner, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, storeErr("load owner", err)
	}

	resumeURL, err := s.upload(ctx, input.Resume)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.referrals.Create(ctx, &domain.Referral{
		CandidateName: fields.CandidateName,
		Email:         fields.Email,
		Phone:         fields.Phone,
		JobTitle:      fields.JobTitle,
		ResumeURL:     resumeURL,
		Status:        domain.StatusPending,
		OwnerID:       owner.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, storeErr("create referral", err)
	}

	metrics.ReferralsCreatedTotal.WithLabelValues(actor.Role.String()).Inc()
	s.record(actor, created.ID, domain.ActivityCreated, func(a *domain.ReferralActivity) {
		a.Status = created.Status
	})
	s.logger.Info().Str("referral_id", created.ID).Str("owner_id", owner.ID).Msg("referral created")

	view := toView(created, owner.Summary())
	return &view, nil
}

// Get returns a single referral to its owner or an Admin.
func (s *ReferralService) Get(ctx context.Context, actor domain.Principal, id string) (*ports.ReferralView, error) {
	ref, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, ref.OwnerID, domain.ActionReadOne); err != nil {
		return nil, err
	}
	return s.view(ctx, ref)
}

// ListOwn returns the referrals created by actor.
func (s *ReferralService) ListOwn(ctx context.Context, actor domain.Principal, input ports.ListReferralsInput) ([]ports.ReferralView, error) {
	if err := s.authorize(actor, actor.AccountID, domain.ActionListOwn); err != nil {
		return nil, err
	}
	filter, err := toFilter(input)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = actor.AccountID
	return s.list(ctx, filter)
}

// ListAll returns every referral. Admin only.
func (s *ReferralService) ListAll(ctx context.Context, actor domain.Principal, input ports.ListReferralsInput) ([]ports.ReferralView, error) {
	if err := s.authorize(actor, "", domain.ActionListAll); err != nil {
		return nil, err
	}
	filter, err := toFilter(input)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// UpdateFields applies a partial update. A status carried by a User patch is
// dropped silently; the owner and creation time never change.
func (s *ReferralService) UpdateFields(ctx context.Context, actor domain.Principal, id string, input ports.UpdateReferralInput) (*ports.ReferralView, error) {
	ref, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, ref.OwnerID, domain.ActionUpdateFields); err != nil {
		return nil, err
	}

	patch := trimPatch(input.Patch)
	if actor.Role != domain.RoleAdmin {
		patch.Status = nil
	}
	if err := validation.Check(s.validate, patch); err != nil {
		return nil, err
	}

	var upd ports.ReferralUpdate
	var changed []string
	if patch.CandidateName != nil {
		upd.CandidateName = patch.CandidateName
		changed = append(changed, "candidateName")
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != ref.Email {
			if err := s.ensureUnique(ctx, ref.OwnerID, email, ref.ID); err != nil {
				return nil, err
			}
		}
		upd.Email = &email
		changed = append(changed, "email")
	}
	if patch.Phone != nil {
		phone := validation.PhoneDigits(*patch.Phone)
		upd.Phone = &phone
		changed = append(changed, "phone")
	}
	if patch.JobTitle != nil {
		upd.JobTitle = patch.JobTitle
		changed = append(changed, "jobTitle")
	}
	if patch.Status != nil {
		status := domain.ReferralStatus(*patch.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		upd.Status = &status
	}

	if input.Resume != nil {
		if err := s.checkResume(input.Resume); err != nil {
			return nil, err
		}
		resumeURL, err := s.upload(ctx, input.Resume)
		if err != nil {
			return nil, err
		}
		upd.ResumeURL = &resumeURL
	}

	if upd == (ports.ReferralUpdate{}) {
		return s.view(ctx, ref)
	}

	updated, err := s.referrals.Update(ctx, ref.ID, upd)
	if err != nil {
		return nil, storeErr("update referral", err)
	}

	if len(changed) > 0 {
		s.record(actor, updated.ID, domain.ActivityUpdated, func(a *domain.ReferralActivity) {
			a.Fields = changed
		})
	}
	if upd.ResumeURL != nil {
		s.record(actor, updated.ID, domain.ActivityResumeChanged, nil)
	}
	if upd.Status != nil && *upd.Status != ref.Status {
		metrics.ReferralStatusChangesTotal.WithLabelValues(string(*upd.Status)).Inc()
		s.record(actor, updated.ID, domain.ActivityStatusChanged, func(a *domain.ReferralActivity) {
			a.Status = *upd.Status
		})
	}

	return s.view(ctx, updated)
}

// UpdateStatus overwrites the review status. Admin only; any status may
// follow any other.
func (s *ReferralService) UpdateStatus(ctx context.Context, actor domain.Principal, id string, status string) (*ports.ReferralView, error) {
	if err := s.authorize(actor, "", domain.ActionUpdateStatus); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	next := domain.ReferralStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.referrals.Update(ctx, id, ports.ReferralUpdate{Status: &next})
	if err != nil {
		return nil, storeErr("update status", err)
	}

	metrics.ReferralStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.record(actor, updated.ID, domain.ActivityStatusChanged, func(a *domain.ReferralActivity) {
		a.Status = next
	})
	s.logger.Info().Str("referral_id", updated.ID).Str("status", string(next)).Msg("referral status changed")

	return s.view(ctx, updated)
}

// Delete permanently removes a referral. Only the owner may delete it.
func (s *ReferralService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	ref, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, ref.OwnerID, domain.ActionDelete); err != nil {
		return err
	}

	if err := s.referrals.Delete(ctx, ref.ID); err != nil {
		return storeErr("delete referral", err)
	}

	metrics.ReferralsDeletedTotal.Inc()
	s.record(actor, ref.ID, domain.ActivityDeleted, nil)
	s.logger.Info().Str("referral_id", ref.ID).Msg("referral deleted")
	return nil
}

// ResumeReference returns the hosted resume URL to the owner or an Admin.
func (s *ReferralService) ResumeReference(ctx context.Context, actor domain.Principal, id string) (string, error) {
	ref, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.authorize(actor, ref.OwnerID, domain.ActionReadOne); err != nil {
		return "", err
	}
	if ref.ResumeURL == "" {
		return "", domain.ErrResumeNotFound
	}
	return ref.ResumeURL, nil
}

// Summary counts referrals per status: every referral for an Admin, the
// caller's own otherwise.
func (s *ReferralService) Summary(ctx context.Context, actor domain.Principal) (*ports.ReferralSummary, error) {
	scope := actor.AccountID
	if domain.CanPerform(actor, "", domain.ActionListAll) {
		scope = ""
	} else if err := s.authorize(actor, actor.AccountID, domain.ActionListOwn); err != nil {
		return nil, err
	}

	counts, err := s.referrals.CountByStatus(ctx, scope)
	if err != nil {
		return nil, storeErr("count referrals", err)
	}

	summary := &ports.ReferralSummary{ByStatus: make(map[domain.ReferralStatus]int64, len(domain.Statuses))}
	for _, st := range domain.Statuses {
		summary.ByStatus[st] = counts[st]
		summary.Total += counts[st]
	}
	return summary, nil
}

// Activity returns the recorded trail of a referral, oldest first.
func (s *ReferralService) Activity(ctx context.Context, actor domain.Principal, id string) ([]domain.ReferralActivity, error) {
	ref, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, ref.OwnerID, domain.ActionReadOne); err != nil {
		return nil, err
	}

	entries, err := s.activity.ListByReferral(ctx, ref.ID)
	if err != nil {
		return nil, storeErr("list activity", err)
	}
	if entries == nil {
		entries = []domain.ReferralActivity{}
	}
	return entries, nil
}

func (s *ReferralService) authorize(actor domain.Principal, ownerID string, action domain.Action) error {
	if domain.CanPerform(actor, ownerID, action) {
		return nil
	}
	metrics.AccessDeniedTotal.WithLabelValues(action.String()).Inc()
	s.logger.Debug().
		Str("account_id", actor.AccountID).
		Str("role", actor.Role.String()).
		Str("action", action.String()).
		Msg("access denied")
	return domain.ErrUnauthorized
}

func (s *ReferralService) find(ctx context.Context, id string) (*domain.Referral, error) {
	ref, err := s.referrals.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find referral", err)
	}
	return ref, nil
}

// ensureUnique rejects a second referral with the same (owner, email) pair.
// The store carries a unique index on the pair as well, so a lost race still
// surfaces as ErrDuplicateReferral from Create.
func (s *ReferralService) ensureUnique(ctx context.Context, ownerID, email, exceptID string) error {
	existing, err := s.referrals.FindByOwnerAndEmail(ctx, ownerID, email)
	switch {
	case err == nil:
		if existing.ID != exceptID {
			return domain.ErrDuplicateReferral
		}
		return nil
	case errors.Is(err, domain.ErrReferralNotFound):
		return nil
	default:
		return storeErr("duplicate check", err)
	}
}

func (s *ReferralService) upload(ctx context.Context, file *domain.ResumeFile) (string, error) {
	url, err := s.resumes.Upload(ctx, *file)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", file.Filename).Msg("resume upload failed")
		return "", upstream("upload resume", err)
	}
	if url == "" {
		return "", upstream("upload resume", errors.New("asset host returned no url"))
	}
	return url, nil
}

func (s *ReferralService) list(ctx context.Context, filter ports.ReferralFilter) ([]ports.ReferralView, error) {
	refs, err := s.referrals.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list referrals", err)
	}
	owners, err := s.owners(ctx, refs)
	if err != nil {
		return nil, err
	}

	views := make([]ports.ReferralView, 0, len(refs))
	for _, r := range refs {
		views = append(views, toView(r, ownerSummary(owners, r.OwnerID)))
	}
	return views, nil
}

func (s *ReferralService) view(ctx context.Context, ref *domain.Referral) (*ports.ReferralView, error) {
	owners, err := s.owners(ctx, []*domain.Referral{ref})
	if err != nil {
		return nil, err
	}
	v := toView(ref, ownerSummary(owners, ref.OwnerID))
	return &v, nil
}

// owners resolves the owner projection for every referral in one lookup.
func (s *ReferralService) owners(ctx context.Context, refs []*domain.Referral) (map[string]*domain.Account, error) {
	if len(refs) == 0 {
		return map[string]*domain.Account{}, nil
	}
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.OwnerID]; ok {
			continue
		}
		seen[r.OwnerID] = struct{}{}
		ids = append(ids, r.OwnerID)
	}
	owners, err := s.accounts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load owners", err)
	}
	return owners, nil
}

// record publishes an activity entry; persistence happens off the request path.
func (s *ReferralService) record(actor domain.Principal, referralID string, action domain.ActivityAction, fill func(*domain.ReferralActivity)) {
	if s.publisher == nil {
		return
	}
	a := domain.ReferralActivity{
		ReferralID: referralID,
		ActorID:    actor.AccountID,
		ActorRole:  actor.Role,
		Action:     action,
		OccurredAt: s.now().UTC(),
	}
	if fill != nil {
		fill(&a)
	}
	s.publisher.Publish(a)
}

func ownerSummary(owners map[string]*domain.Account, id string) domain.AccountSummary {
	if a, ok := owners[id]; ok {
		return a.Summary()
	}
	return domain.AccountSummary{ID: id}
}

func toView(r *domain.Referral, owner domain.AccountSummary) ports.ReferralView {
	return ports.ReferralView{
		ID:            r.ID,
		CandidateName: r.CandidateName,
		Email:         r.Email,
		Phone:         r.Phone,
		JobTitle:      r.JobTitle,
		ResumeURL:     r.ResumeURL,
		Status:        r.Status,
		CreatedBy:     owner,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func toFilter(input ports.ListReferralsInput) (ports.ReferralFilter, error) {
	filter := ports.ReferralFilter{Search: strings.TrimSpace(input.Search)}
	if st := strings.TrimSpace(input.Status); st != "" {
		status := domain.ReferralStatus(st)
		if !status.Valid() {
			return ports.ReferralFilter{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	return filter, nil
}

func trimFields(f domain.ReferralFields) domain.ReferralFields {
	return domain.ReferralFields{
		CandidateName: strings.TrimSpace(f.CandidateName),
		Email:         strings.TrimSpace(f.Email),
		Phone:         strings.TrimSpace(f.Phone),
		JobTitle:      strings.TrimSpace(f.JobTitle),
	}
}

func trimPatch(p domain.ReferralPatch) domain.ReferralPatch {
	return domain.ReferralPatch{
		CandidateName: trimPtr(p.CandidateName),
		Email:         trimPtr(p.Email),
		Phone:         trimPtr(p.Phone),
		JobTitle:      trimPtr(p.JobTitle),
		Status:        trimPtr(p.Status),
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// storeErr passes domain errors through and classifies everything else as an
// upstream storage failure.
func storeErr(op string, err error) error {
	for _, known := range []error{
		domain.ErrReferralNotFound,
		domain.ErrDuplicateReferral,
		domain.ErrAccountNotFound,
		domain.ErrUpstreamStorage,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return upstream(op, err)
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamStorage, err)
}
