package service

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/refhub/referral-service/internal/core/domain"
)

const pdfMIME = "application/pdf"

// checkResume enforces the upload rules: present, within the size limit and
// sniffed as a PDF regardless of the declared file name.
func (s *ReferralService) checkResume(f *domain.ResumeFile) error {
	if f == nil || len(f.Content) == 0 {
		return domain.NewValidationError("Resume is required")
	}
	if int64(len(f.Content)) > s.maxResumeBytes {
		return domain.NewValidationError(fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxResumeBytes>>20))
	}
	if !mimetype.Detect(f.Content).Is(pdfMIME) {
		return domain.NewValidationError("Only PDF files allowed!")
	}
	return nil
}
