// Package storage hands resume files to the external asset host.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

const (
	defaultFolder = "resumes"
	uploadTimeout = 30 * time.Second
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Config selects the Cloudinary account. URL wins over the individual credentials.
type Config struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// ResumeStore implements ports.ResumeStore on Cloudinary.
type ResumeStore struct {
	api    uploadAPI
	folder string
	logger zerolog.Logger
	newID  func() string
}

var _ ports.ResumeStore = (*ResumeStore)(nil)

// NewResumeStore builds a Cloudinary client from cfg.
func NewResumeStore(cfg Config, logger zerolog.Logger) (*ResumeStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, errors.New("cloudinary: no credentials configured")
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}

	return newResumeStore(&cld.Upload, cfg.Folder, logger), nil
}

func newResumeStore(api uploadAPI, folder string, logger zerolog.Logger) *ResumeStore {
	if folder == "" {
		folder = defaultFolder
	}
	return &ResumeStore{
		api:    api,
		folder: folder,
		logger: logger.With().Str("component", "resume_store").Logger(),
		newID:  func() string { return uuid.NewString() },
	}
}

// Upload stores the resume under a fresh public id and returns its secure URL.
// Previously uploaded assets are left in place.
func (s *ResumeStore) Upload(ctx context.Context, file domain.ResumeFile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	publicID := s.publicID(file.Filename)
	start := time.Now()
	res, err := s.api.Upload(ctx, bytes.NewReader(file.Content), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "auto",
	})
	metrics.ResumeUploadDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
	case res == nil:
		err = errors.New("empty upload result")
	case res.Error.Message != "":
		err = errors.New(res.Error.Message)
	case res.SecureURL == "":
		err = errors.New("upload result carries no url")
	}
	if err != nil {
		metrics.ResumeUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("cloudinary upload %s: %w", publicID, err)
	}

	metrics.ResumeUploadsTotal.WithLabelValues("ok").Inc()
	s.logger.Debug().Str("public_id", res.PublicID).Int("bytes", len(file.Content)).Msg("resume uploaded")
	return res.SecureURL, nil
}

// publicID builds resume_<uuid>_<name> from the original file name without its extension.
func (s *ResumeStore) publicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
	if base == "" || base == "." {
		base = "resume"
	}
	return fmt.Sprintf("resume_%s_%s", s.newID(), base)
}
