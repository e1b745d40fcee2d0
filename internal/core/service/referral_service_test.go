package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type referralFixture struct {
	svc       *ReferralService
	referrals *stubReferralRepo
	accounts  *stubAccountRepo
	resumes   *stubResumeStore
	activity  *stubActivityRepo
	publisher *stubPublisher
	alice     domain.Principal
	bob       domain.Principal
	admin     domain.Principal
}

func newReferralFixture() *referralFixture {
	f := &referralFixture{
		referrals: newStubReferralRepo(),
		accounts:  newStubAccountRepo(),
		resumes:   &stubResumeStore{},
		activity:  &stubActivityRepo{},
		publisher: &stubPublisher{},
	}
	f.alice = f.accounts.seed("Alice", domain.RoleUser)
	f.bob = f.accounts.seed("Bob", domain.RoleUser)
	f.admin = f.accounts.seed("Admin", domain.RoleAdmin)
	f.svc = NewReferralService(ReferralDeps{
		Referrals: f.referrals,
		Accounts:  f.accounts,
		Resumes:   f.resumes,
		Activity:  f.activity,
		Publisher: f.publisher,
	}, zerolog.Nop())
	return f
}

func validInput(email string) ports.CreateReferralInput {
	return ports.CreateReferralInput{
		Fields: domain.ReferralFields{
			CandidateName: "Jane Doe",
			Email:         email,
			Phone:         "9876543210",
			JobTitle:      "Backend Engineer",
		},
		Resume: &domain.ResumeFile{Filename: "jane.pdf", Content: pdfBytes},
	}
}

func (f *referralFixture) create(t *testing.T, actor domain.Principal, email string) *ports.ReferralView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), actor, validInput(email))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return view
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReferralService_Create_Success(t *testing.T) {
	f := newReferralFixture()

	view := f.create(t, f.alice, "Jane.Doe@Corp.io")

	if view.Status != domain.StatusPending {
		t.Errorf("expected status Pending, got %s", view.Status)
	}
	if view.Email != "jane.doe@corp.io" {
		t.Errorf("expected lowercased email, got %s", view.Email)
	}
	if view.CreatedBy.ID != f.alice.AccountID || view.CreatedBy.Name != "Alice" {
		t.Errorf("unexpected owner projection: %+v", view.CreatedBy)
	}
	if view.ResumeURL == "" {
		t.Error("resume url must be set")
	}
	if view.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if len(f.resumes.uploads) != 1 {
		t.Errorf("expected one upload, got %d", len(f.resumes.uploads))
	}
	if got := f.publisher.actions(); len(got) != 1 || got[0] != domain.ActivityCreated {
		t.Errorf("expected created activity, got %v", got)
	}
}

func TestReferralService_Create_NormalizesPhone(t *testing.T) {
	f := newReferralFixture()
	in := validInput("jane@corp.io")
	in.Fields.Phone = "(987) 654-3210"

	view, err := f.svc.Create(context.Background(), f.alice, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Phone != "9876543210" {
		t.Fatalf("expected digits-only phone, got %s", view.Phone)
	}
}

func TestReferralService_Create_SequentialPhoneFails(t *testing.T) {
	f := newReferralFixture()
	in := validInput("jane@corp.io")
	in.Fields.Phone = "1234567890"

	_, err := f.svc.Create(context.Background(), f.alice, in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.referrals.byID) != 0 || len(f.resumes.uploads) != 0 {
		t.Fatal("a rejected create must have no side effects")
	}
}

func TestReferralService_Create_RequiresResume(t *testing.T) {
	f := newReferralFixture()
	in := validInput("jane@corp.io")
	in.Resume = nil

	_, err := f.svc.Create(context.Background(), f.alice, in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Messages[0] != "Resume is required" {
		t.Fatalf("expected resume required, got %v", err)
	}
}

func TestReferralService_Create_RejectsNonPDF(t *testing.T) {
	f := newReferralFixture()
	in := validInput("jane@corp.io")
	in.Resume = &domain.ResumeFile{Filename: "jane.pdf", Content: []byte("just some text pretending to be a pdf")}

	_, err := f.svc.Create(context.Background(), f.alice, in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Messages[0] != "Only PDF files allowed!" {
		t.Fatalf("expected PDF rejection, got %v", err)
	}
}

func TestReferralService_Create_RejectsOversizedResume(t *testing.T) {
	f := newReferralFixture()
	f.svc.maxResumeBytes = 1 << 20
	in := validInput("jane@corp.io")
	in.Resume = &domain.ResumeFile{Filename: "big.pdf", Content: append(append([]byte{}, pdfBytes...), make([]byte, 1<<20)...)}

	_, err := f.svc.Create(context.Background(), f.alice, in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Messages[0] != "File too large. Maximum size is 1MB." {
		t.Fatalf("expected size rejection, got %v", err)
	}
}

func TestReferralService_Create_DuplicateOwnerEmail(t *testing.T) {
	f := newReferralFixture()
	f.create(t, f.alice, "jane@corp.io")

	_, err := f.svc.Create(context.Background(), f.alice, validInput("JANE@corp.io"))
	if !errors.Is(err, domain.ErrDuplicateReferral) {
		t.Fatalf("expected ErrDuplicateReferral, got %v", err)
	}
	if len(f.resumes.uploads) != 1 {
		t.Fatalf("duplicate must be rejected before upload, got %d uploads", len(f.resumes.uploads))
	}

	// Same email under another owner is allowed.
	f.create(t, f.bob, "jane@corp.io")
}

func TestReferralService_Create_DuplicateRaceCaughtByStore(t *testing.T) {
	f := newReferralFixture()
	f.create(t, f.alice, "jane@corp.io")
	f.referrals.skipCheck = true

	if _, err := f.svc.Create(context.Background(), f.alice, validInput("jane@corp.io")); !errors.Is(err, domain.ErrDuplicateReferral) {
		t.Fatalf("expected ErrDuplicateReferral from the store, got %v", err)
	}
}

func TestReferralService_Create_UploadFailure(t *testing.T) {
	f := newReferralFixture()
	f.resumes.err = errors.New("cloudinary: 503")

	_, err := f.svc.Create(context.Background(), f.alice, validInput("jane@corp.io"))
	if !errors.Is(err, domain.ErrUpstreamStorage) {
		t.Fatalf("expected ErrUpstreamStorage, got %v", err)
	}
	if len(f.referrals.byID) != 0 {
		t.Fatal("no referral may be stored when the upload fails")
	}
}

func TestReferralService_Create_InvalidPrincipal(t *testing.T) {
	f := newReferralFixture()

	if _, err := f.svc.Create(context.Background(), domain.Principal{AccountID: "x"}, validInput("jane@corp.io")); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestReferralService_ListAll_AdminOnly(t *testing.T) {
	f := newReferralFixture()
	f.create(t, f.alice, "jane@corp.io")
	f.create(t, f.bob, "john@corp.io")

	if _, err := f.svc.ListAll(context.Background(), f.alice, ports.ListReferralsInput{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for User, got %v", err)
	}

	all, err := f.svc.ListAll(context.Background(), f.admin, ports.ListReferralsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 referrals, got %d", len(all))
	}
}

func TestReferralService_ListOwn_ScopedToCaller(t *testing.T) {
	f := newReferralFixture()
	f.create(t, f.alice, "jane@corp.io")
	f.create(t, f.alice, "jim@corp.io")
	f.create(t, f.bob, "john@corp.io")

	own, err := f.svc.ListOwn(context.Background(), f.alice, ports.ListReferralsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("expected 2 referrals, got %d", len(own))
	}
	for _, v := range own {
		if v.CreatedBy.ID != f.alice.AccountID {
			t.Errorf("foreign referral leaked: %+v", v)
		}
	}

	adminOwn, err := f.svc.ListOwn(context.Background(), f.admin, ports.ListReferralsInput{})
	if err != nil || len(adminOwn) != 0 {
		t.Fatalf("admin own listing should be empty, got %d (%v)", len(adminOwn), err)
	}
}

func TestReferralService_List_Filters(t *testing.T) {
	f := newReferralFixture()
	a := f.create(t, f.alice, "jane@corp.io")
	in := validInput("jim@corp.io")
	in.Fields.JobTitle = "Data Analyst"
	if _, err := f.svc.Create(context.Background(), f.alice, in); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.admin, a.ID, "Reviewed"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	byStatus, err := f.svc.ListAll(context.Background(), f.admin, ports.ListReferralsInput{Status: "Reviewed"})
	if err != nil || len(byStatus) != 1 || byStatus[0].ID != a.ID {
		t.Fatalf("status filter failed: %+v (%v)", byStatus, err)
	}

	bySearch, err := f.svc.ListOwn(context.Background(), f.alice, ports.ListReferralsInput{Search: "analyst"})
	if err != nil || len(bySearch) != 1 || bySearch[0].JobTitle != "Data Analyst" {
		t.Fatalf("search filter failed: %+v (%v)", bySearch, err)
	}

	if _, err := f.svc.ListAll(context.Background(), f.admin, ports.ListReferralsInput{Status: "Hired"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestReferralService_Get_OwnerOrAdmin(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	if _, err := f.svc.Get(context.Background(), f.alice, ref.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.admin, ref.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.bob, ref.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.alice, "missing"); !errors.Is(err, domain.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// UpdateFields
// ---------------------------------------------------------------------------

func TestReferralService_UpdateFields_UserStatusDropped(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	updated, err := f.svc.UpdateFields(context.Background(), f.alice, ref.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{Status: strPtr("Selected"), JobTitle: strPtr("Staff Engineer")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.JobTitle != "Staff Engineer" {
		t.Errorf("expected job title applied, got %s", updated.JobTitle)
	}
	if updated.Status != domain.StatusPending {
		t.Errorf("expected status unchanged, got %s", updated.Status)
	}
}

func TestReferralService_UpdateFields_AdminMayChangeStatus(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	updated, err := f.svc.UpdateFields(context.Background(), f.admin, ref.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{Status: strPtr("Rejected")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusRejected {
		t.Fatalf("expected Rejected, got %s", updated.Status)
	}

	_, err = f.svc.UpdateFields(context.Background(), f.admin, ref.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{Status: strPtr("Hired")},
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestReferralService_UpdateFields_OwnerImmutable(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	patches := []domain.ReferralPatch{
		{CandidateName: strPtr("Janet Doe")},
		{Email: strPtr("janet@corp.io")},
		{Phone: strPtr("9123456780")},
		{JobTitle: strPtr("Engineering Manager"), Status: strPtr("Reviewed")},
	}
	for _, actor := range []domain.Principal{f.alice, f.admin} {
		for _, p := range patches {
			updated, err := f.svc.UpdateFields(context.Background(), actor, ref.ID, ports.UpdateReferralInput{Patch: p})
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if updated.CreatedBy.ID != f.alice.AccountID {
				t.Fatalf("owner changed to %s", updated.CreatedBy.ID)
			}
			if !updated.CreatedAt.Equal(ref.CreatedAt) {
				t.Fatalf("createdAt changed")
			}
		}
	}
	if f.referrals.byID[ref.ID].OwnerID != f.alice.AccountID {
		t.Fatal("stored owner changed")
	}
}

func TestReferralService_UpdateFields_NotFoundAndUnauthorized(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")
	patch := ports.UpdateReferralInput{Patch: domain.ReferralPatch{JobTitle: strPtr("Recruiter")}}

	if _, err := f.svc.UpdateFields(context.Background(), f.alice, "missing", patch); !errors.Is(err, domain.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateFields(context.Background(), f.bob, ref.ID, patch); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReferralService_UpdateFields_ValidatesPresentFields(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	_, err := f.svc.UpdateFields(context.Background(), f.alice, ref.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{Phone: strPtr("0000000000")},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.referrals.byID[ref.ID].Phone != "9876543210" {
		t.Fatal("rejected patch must not be applied")
	}
}

func TestReferralService_UpdateFields_DuplicateEmail(t *testing.T) {
	f := newReferralFixture()
	f.create(t, f.alice, "jane@corp.io")
	second := f.create(t, f.alice, "jim@corp.io")

	_, err := f.svc.UpdateFields(context.Background(), f.alice, second.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{Email: strPtr("jane@corp.io")},
	})
	if !errors.Is(err, domain.ErrDuplicateReferral) {
		t.Fatalf("expected ErrDuplicateReferral, got %v", err)
	}
}

func TestReferralService_UpdateFields_ReplacesResume(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	updated, err := f.svc.UpdateFields(context.Background(), f.alice, ref.ID, ports.UpdateReferralInput{
		Resume: &domain.ResumeFile{Filename: "v2.pdf", Content: pdfBytes},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ResumeURL == ref.ResumeURL {
		t.Fatal("expected a new resume url")
	}

	// Omitting the resume keeps the previous reference.
	kept, err := f.svc.UpdateFields(context.Background(), f.alice, ref.ID, ports.UpdateReferralInput{
		Patch: domain.ReferralPatch{JobTitle: strPtr("Platform Engineer")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept.ResumeURL != updated.ResumeURL {
		t.Fatalf("resume url changed without a new upload: %s", kept.ResumeURL)
	}

	var replaced bool
	for _, a := range f.publisher.actions() {
		if a == domain.ActivityResumeChanged {
			replaced = true
		}
	}
	if !replaced {
		t.Fatal("expected resume_replaced activity")
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestReferralService_UpdateStatus(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	if _, err := f.svc.UpdateStatus(context.Background(), f.alice, ref.ID, "Selected"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for owner, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.admin, "missing", "Selected"); !errors.Is(err, domain.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.admin, ref.ID, "Hired"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// No transition graph: every status is reachable from every other.
	for _, st := range []string{"Selected", "Pending", "Rejected", "Reviewed", "Selected"} {
		updated, err := f.svc.UpdateStatus(context.Background(), f.admin, ref.ID, st)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", st, err)
		}
		if string(updated.Status) != st {
			t.Fatalf("expected %s, got %s", st, updated.Status)
		}
	}

	own, err := f.svc.ListOwn(context.Background(), f.alice, ports.ListReferralsInput{})
	if err != nil || own[0].Status != domain.StatusSelected {
		t.Fatalf("owner should see the admin's status, got %+v (%v)", own, err)
	}
}

// ---------------------------------------------------------------------------
// Delete and resume reference
// ---------------------------------------------------------------------------

func TestReferralService_Delete_AdminNotOwnerRefused(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	if err := f.svc.Delete(context.Background(), f.admin, ref.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for admin, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.bob, ref.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for other user, got %v", err)
	}
	if _, ok := f.referrals.byID[ref.ID]; !ok {
		t.Fatal("referral must survive refused deletes")
	}
}

func TestReferralService_Delete_OwnerSucceeds(t *testing.T) {
	f := newReferralFixture()
	userRef := f.create(t, f.alice, "jane@corp.io")
	adminRef := f.create(t, f.admin, "john@corp.io")

	for _, tc := range []struct {
		actor domain.Principal
		id    string
	}{{f.alice, userRef.ID}, {f.admin, adminRef.ID}} {
		if err := f.svc.Delete(context.Background(), tc.actor, tc.id); err != nil {
			t.Fatalf("owner delete failed: %v", err)
		}
		if _, err := f.svc.ResumeReference(context.Background(), tc.actor, tc.id); !errors.Is(err, domain.ErrReferralNotFound) {
			t.Fatalf("expected ErrReferralNotFound after delete, got %v", err)
		}
		if _, err := f.svc.Get(context.Background(), tc.actor, tc.id); !errors.Is(err, domain.ErrReferralNotFound) {
			t.Fatalf("expected ErrReferralNotFound after delete, got %v", err)
		}
	}
	if err := f.svc.Delete(context.Background(), f.alice, userRef.ID); !errors.Is(err, domain.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound on second delete, got %v", err)
	}
}

func TestReferralService_ResumeReference(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")

	url, err := f.svc.ResumeReference(context.Background(), f.admin, ref.ID)
	if err != nil || !strings.HasPrefix(url, "https://") {
		t.Fatalf("unexpected result %q (%v)", url, err)
	}
	if _, err := f.svc.ResumeReference(context.Background(), f.bob, ref.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	f.referrals.byID[ref.ID].ResumeURL = ""
	if _, err := f.svc.ResumeReference(context.Background(), f.alice, ref.ID); !errors.Is(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Summary and activity
// ---------------------------------------------------------------------------

func TestReferralService_Summary(t *testing.T) {
	f := newReferralFixture()
	a := f.create(t, f.alice, "jane@corp.io")
	f.create(t, f.bob, "john@corp.io")
	if _, err := f.svc.UpdateStatus(context.Background(), f.admin, a.ID, "Reviewed"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	all, err := f.svc.Summary(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Total != 2 || all.ByStatus[domain.StatusPending] != 1 || all.ByStatus[domain.StatusReviewed] != 1 {
		t.Fatalf("unexpected admin summary: %+v", all)
	}
	if _, ok := all.ByStatus[domain.StatusSelected]; !ok {
		t.Fatal("every status must be present in the summary")
	}

	own, err := f.svc.Summary(context.Background(), f.bob)
	if err != nil || own.Total != 1 || own.ByStatus[domain.StatusPending] != 1 {
		t.Fatalf("unexpected user summary: %+v (%v)", own, err)
	}
}

func TestReferralService_Activity(t *testing.T) {
	f := newReferralFixture()
	ref := f.create(t, f.alice, "jane@corp.io")
	if _, err := f.svc.UpdateStatus(context.Background(), f.admin, ref.ID, "Selected"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	for _, a := range f.publisher.published {
		f.activity.entries = append(f.activity.entries, a)
	}

	entries, err := f.svc.Activity(context.Background(), f.alice, ref.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[1].Action != domain.ActivityStatusChanged || entries[1].Status != domain.StatusSelected {
		t.Fatalf("unexpected activity: %+v", entries)
	}
	if entries[1].ActorID != f.admin.AccountID || entries[1].ActorRole != domain.RoleAdmin {
		t.Fatalf("actor not recorded: %+v", entries[1])
	}
	if _, err := f.svc.Activity(context.Background(), f.bob, ref.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
