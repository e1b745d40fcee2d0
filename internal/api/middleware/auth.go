package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/refhub/referral-service/internal/core/domain"
)

// principalKey is the echo context key holding the authenticated domain.Principal.
const principalKey = "principal"

// TokenVerifier resolves a session token to the caller identity.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// Auth validates the session token and injects the principal into context.
// The token comes from the Authorization bearer header or, when no bearer
// token is sent, from the token query parameter so plain links keep working.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}

			p, err := verifier.Verify(token)
			if err != nil {
				return err
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	isBearer := len(parts) == 2 && strings.EqualFold(parts[0], "bearer")
	if isBearer {
		if token := strings.TrimSpace(parts[1]); token != "" {
			return token, nil
		}
	}

	// Browsers following a link cannot set headers; accept ?token= whenever
	// no bearer token was sent.
	if token := strings.TrimSpace(c.QueryParam("token")); token != "" {
		return token, nil
	}
	if authHeader != "" && !isBearer {
		return "", domain.ErrInvalidOrExpiredToken
	}
	return "", domain.ErrMissingToken
}

// SetPrincipal stores the authenticated caller on the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal injected by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
