package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/refhub/referral-service/internal/api/middleware"
	"github.com/refhub/referral-service/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware. Its absence
// means the route was mounted without authentication.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.AccountID == "" {
		return domain.Principal{}, domain.ErrMissingToken
	}
	return p, nil
}
