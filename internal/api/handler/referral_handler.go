package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/refhub/referral-service/internal/api/response"
	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
)

const resumeField = "resume"

type ReferralHandler struct {
	referrals ports.ReferralService
}

func NewReferralHandler(referrals ports.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
}

// Create submits a referral with its resume.
//
// @Summary      Create a referral
// @Tags         referral
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        candidateName  formData  string  true  "Candidate name"
// @Param        email          formData  string  true  "Candidate email"
// @Param        phone          formData  string  true  "Candidate phone"
// @Param        jobTitle       formData  string  true  "Job title"
// @Param        resume         formData  file    true  "Resume (PDF)"
// @Success      201  {object}  response.Envelope{data=ports.ReferralView}
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /referral [post]
func (h *ReferralHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	resume, err := readResume(c)
	if err != nil {
		return err
	}

	view, err := h.referrals.Create(c.Request().Context(), actor, ports.CreateReferralInput{
		Fields: domain.ReferralFields{
			CandidateName: c.FormValue("candidateName"),
			Email:         c.FormValue("email"),
			Phone:         c.FormValue("phone"),
			JobTitle:      c.FormValue("jobTitle"),
		},
		Resume: resume,
	})
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusCreated, view)
}

// ListOwn returns the caller's referrals.
//
// @Summary      List own referrals
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Search job title, status or candidate name"
// @Success      200     {object}  response.Envelope{data=[]ports.ReferralView}
// @Router       /referral/my [get]
func (h *ReferralHandler) ListOwn(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c)
	if err != nil {
		return err
	}

	views, err := h.referrals.ListOwn(c.Request().Context(), actor, q)
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, views)
}

// ListAll returns every referral. Admin only.
//
// @Summary      List all referrals
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Search job title, status or candidate name"
// @Success      200     {object}  response.Envelope{data=[]ports.ReferralView}
// @Failure      403     {object}  response.Envelope
// @Router       /referral [get]
func (h *ReferralHandler) ListAll(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c)
	if err != nil {
		return err
	}

	views, err := h.referrals.ListAll(c.Request().Context(), actor, q)
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, views)
}

// Summary counts referrals per status.
//
// @Summary      Referral counts per status
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=ports.ReferralSummary}
// @Router       /referral/summary [get]
func (h *ReferralHandler) Summary(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	summary, err := h.referrals.Summary(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, summary)
}

// Get returns one referral.
//
// @Summary      Get a referral
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral ID"
// @Success      200  {object}  response.Envelope{data=ports.ReferralView}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /referral/{id} [get]
func (h *ReferralHandler) Get(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	view, err := h.referrals.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, view)
}

// Update applies a JSON partial update.
//
// @Summary      Update referral fields
// @Tags         referral
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Referral ID"
// @Param        body  body      domain.ReferralPatch true  "Fields to change"
// @Success      200   {object}  response.Envelope{data=ports.ReferralView}
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /referral/{id} [put]
func (h *ReferralHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var patch domain.ReferralPatch
	if err := (&echo.DefaultBinder{}).BindBody(c, &patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	view, err := h.referrals.UpdateFields(c.Request().Context(), actor, c.Param("id"), ports.UpdateReferralInput{Patch: patch})
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, view)
}

// UpdateWithResume applies a multipart partial update, optionally replacing the resume.
//
// @Summary      Update referral fields and resume
// @Tags         referral
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id             path      string  true   "Referral ID"
// @Param        candidateName  formData  string  false  "Candidate name"
// @Param        email          formData  string  false  "Candidate email"
// @Param        phone          formData  string  false  "Candidate phone"
// @Param        jobTitle       formData  string  false  "Job title"
// @Param        status         formData  string  false  "Status (Admin only)"
// @Param        resume         formData  file    false  "Replacement resume (PDF)"
// @Success      200  {object}  response.Envelope{data=ports.ReferralView}
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /referral/{id}/with-resume [put]
func (h *ReferralHandler) UpdateWithResume(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart payload")
	}
	formValue := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	patch := domain.ReferralPatch{
		CandidateName: formValue("candidateName"),
		Email:         formValue("email"),
		Phone:         formValue("phone"),
		JobTitle:      formValue("jobTitle"),
		Status:        formValue("status"),
	}

	resume, err := readResume(c)
	if err != nil {
		return err
	}

	view, err := h.referrals.UpdateFields(c.Request().Context(), actor, c.Param("id"), ports.UpdateReferralInput{
		Patch:  patch,
		Resume: resume,
	})
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, view)
}

// UpdateStatus overwrites the review status. Admin only.
//
// @Summary      Update referral status
// @Tags         referral
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Referral ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  response.Envelope{data=ports.ReferralView}
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /referral/{id}/status [put]
func (h *ReferralHandler) UpdateStatus(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.referrals.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, view)
}

// Delete removes a referral. Owner only.
//
// @Summary      Delete a referral
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /referral/{id} [delete]
func (h *ReferralHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.referrals.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Referral deleted successfully")
}

// Resume redirects to the hosted resume.
//
// @Summary      Open the resume
// @Tags         referral
// @Security     BearerAuth
// @Param        id     path   string  true   "Referral ID"
// @Param        token  query  string  false  "Session token when no header can be sent"
// @Success      302
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /referral/{id}/resume [get]
func (h *ReferralHandler) Resume(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	url, err := h.referrals.ResumeReference(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// Activity returns the audit trail of a referral.
//
// @Summary      Referral activity
// @Tags         referral
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral ID"
// @Success      200  {object}  response.Envelope{data=[]domain.ReferralActivity}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /referral/{id}/activity [get]
func (h *ReferralHandler) Activity(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	entries, err := h.referrals.Activity(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, entries)
}

func bindListQuery(c echo.Context) (ports.ListReferralsInput, error) {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return ports.ListReferralsInput{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	return ports.ListReferralsInput{Status: q.Status, Search: q.Search}, nil
}

// readResume loads the uploaded resume, or returns nil when none was sent.
func readResume(c echo.Context) (*domain.ResumeFile, error) {
	fh, err := c.FormFile(resumeField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart payload")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.ResumeFile{Filename: fh.Filename, Content: content}, nil
}
