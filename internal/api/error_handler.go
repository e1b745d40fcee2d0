package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/refhub/referral-service/internal/api/response"
	"github.com/refhub/referral-service/internal/core/domain"
)

const genericFailure = "Something went wrong, please try again later"

// knownErrors maps domain errors to their status code and client message.
var knownErrors = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrDuplicateReferral, http.StatusBadRequest, "A referral with this email already exists"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{domain.ErrAccountExists, http.StatusBadRequest, "User already exists"},
	{domain.ErrMissingToken, http.StatusUnauthorized, "Session expired, please log in"},
	{domain.ErrInvalidOrExpiredToken, http.StatusUnauthorized, "Invalid or expired token"},
	{domain.ErrNotRegistered, http.StatusUnauthorized, "User not registered"},
	{domain.ErrInvalidCredential, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrUnauthorized, http.StatusForbidden, "Unauthorized operation"},
	{domain.ErrReferralNotFound, http.StatusNotFound, "Referral not found"},
	{domain.ErrResumeNotFound, http.StatusNotFound, "Resume not found"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the failure envelope: {"success":false,"message":...,"errors":[...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, errs := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = response.Fail(c, code, msg, errs...)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		msg := "Validation failed"
		if len(ve.Messages) > 0 {
			msg = ve.Messages[0]
		}
		return http.StatusBadRequest, msg, ve.Messages
	}

	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return k.code, k.msg, nil
		}
	}

	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
			return he.Code, genericFailure, nil
		}
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	logUnexpected(log, c, err)
	return http.StatusInternalServerError, genericFailure, nil
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Bool("upstream", errors.Is(err, domain.ErrUpstreamStorage)).
		Msg("unhandled error")
}
