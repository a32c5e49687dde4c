// Package identity implements the email/password identity provider:
// account creation, credential verification, session tokens, and
// password-reset requests.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/validate"
)

// ResetTTL is how long a password-reset token stays valid.
const ResetTTL = time.Hour

// ServiceConfig carries token signing parameters.
type ServiceConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
}

// Service is the identity provider backed by an account repository.
type Service struct {
	accounts domain.AccountRepository
	cfg      ServiceConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates an identity Service.
func NewService(accounts domain.AccountRepository, cfg ServiceConfig, logger zerolog.Logger) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &Service{accounts: accounts, cfg: cfg, logger: logger, now: time.Now}
}

// CreateAccount registers a new account and returns its identity.
// Duplicate emails map to domain.ErrEmailInUse.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	email, err := validate.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("account created")
	identity := account.Identity()
	return &identity, nil
}

// VerifyCredential checks an email/password pair. An unknown email maps
// to domain.ErrUnknownAccount, a wrong password to domain.ErrInvalidCredential.
func (s *Service) VerifyCredential(ctx context.Context, email, password string) (*domain.Identity, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	identity := account.Identity()
	return &identity, nil
}

// SetDisplayName updates the public display name of an account.
func (s *Service) SetDisplayName(ctx context.Context, id, name string) error {
	return s.accounts.UpdateDisplayName(ctx, id, name)
}

// SendPasswordReset records a reset token for the account behind email.
// Mail delivery is outside this service; the token is logged so an
// operator (or a dev setup) can complete the flow.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email, err := validate.NormalizeEmail(email)
	if err != nil {
		return err
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnknownAccount
		}
		return err
	}

	reset := &domain.PasswordReset{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(ResetTTL),
	}
	if err := s.accounts.CreatePasswordReset(ctx, reset); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", account.ID).Str("token", reset.Token).Msg("password reset issued")
	return nil
}

// IssueToken mints a bearer token for the identity.
func (s *Service) IssueToken(identity *domain.Identity) (string, error) {
	return middleware.SignJWT(s.cfg.JWTSecret, middleware.TokenClaims{
		Sub:      identity.ID,
		Email:    identity.Email,
		Exp:      s.now().Add(s.cfg.TokenTTL).Unix(),
		Issuer:   s.cfg.Issuer,
		Audience: s.cfg.Audience,
	})
}

// Authenticate resolves a bearer token back to its identity. Invalid or
// expired tokens map to domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := middleware.VerifyJWT(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	account, err := s.accounts.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	identity := account.Identity()
	return &identity, nil
}
