package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/refhub/referral-service/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after Auth.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
