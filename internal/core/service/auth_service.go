package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/core/validation"
	"github.com/refhub/referral-service/internal/pkg/metrics"
)

const defaultTokenTTL = time.Hour

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and stateless token verification.
type AuthService struct {
	repo      ports.AccountRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		validate:  validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a User account. Admin accounts are only ever seeded.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}
	return s.createAccount(ctx, input, domain.RoleUser)
}

// EnsureAdmin seeds an Admin account unless one with the same email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Check(s.validate, input); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn().Str("email", input.Email).Msg("seed admin email belongs to a non-admin account")
		}
		return existing, nil
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	created, err := s.createAccount(ctx, input, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	s.logger.Info().Str("account_id", created.ID).Msg("admin account seeded")
	return created, nil
}

func (s *AuthService) createAccount(ctx context.Context, input ports.RegisterInput, role domain.Role) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", created.ID).Str("role", role.String()).Msg("account registered")
	return created, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credential").Inc()
		return "", nil, domain.ErrInvalidCredential
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("not_registered").Inc()
			return "", nil, domain.ErrNotRegistered
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credential").Inc()
		return "", nil, domain.ErrInvalidCredential
	}

	token, err := s.generateToken(account)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, account, nil
}

// Verify resolves a session token to the caller identity. No server-side
// session state is consulted.
func (s *AuthService) Verify(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrMissingToken
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrInvalidOrExpiredToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return domain.Principal{}, domain.ErrInvalidOrExpiredToken
	}
	return domain.Principal{AccountID: claims.Subject, Role: role}, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role: account.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
