package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure AuthService implements the interfaces.
var (
	_ driving.AuthService     = (*AuthService)(nil)
	_ driven.IdentityProvider = (*AuthService)(nil)
)

// AuthService stores bearer tokens per profile and hands them to the SessionGate.
type AuthService struct {
	store     driven.SessionStore
	inspector driven.TokenInspector
	profile   string
	override  string
	now       func() time.Time
}

// NewAuthService creates a new auth service for a profile.
func NewAuthService(store driven.SessionStore, inspector driven.TokenInspector, profile string) *AuthService {
	if profile == "" {
		profile = domain.DefaultProfile
	}
	return &AuthService{
		store:     store,
		inspector: inspector,
		profile:   profile,
		now:       time.Now,
	}
}

// WithOverride makes Token return token instead of the stored one.
// Used for --token and KBHUB_TOKEN.
func (s *AuthService) WithOverride(token string) *AuthService {
	s.override = strings.TrimSpace(token)
	return s
}

// Login inspects the token and stores it. Opaque tokens are accepted
// without claims; tokens that are already expired are rejected.
func (s *AuthService) Login(ctx context.Context, raw string) (*domain.StoredToken, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidInput)
	}

	token := domain.StoredToken{
		Profile: s.profile,
		Token:   raw,
		SavedAt: s.now().UTC(),
	}

	if s.inspector != nil {
		claims, err := s.inspector.Inspect(raw)
		if err != nil {
			logger.Debug("Token has no readable claims: %v", err)
		} else {
			token.Subject = claims.Username
			if token.Subject == "" {
				token.Subject = claims.Subject
			}
			token.ExpiresAt = claims.ExpiresAt
		}
	}

	if token.Expired(s.now()) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.store.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	logger.Info("Stored token for profile %q (subject %q)", s.profile, token.Subject)
	return &token, nil
}

// Logout removes the stored token for the profile.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := s.store.Delete(ctx, s.profile); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Status returns the stored token for the profile.
func (s *AuthService) Status(ctx context.Context) (*domain.StoredToken, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	token, err := s.store.Get(ctx, s.profile)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Token implements driven.IdentityProvider.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	if s.override != "" {
		return s.override, nil
	}
	if s.store == nil {
		return "", domain.ErrNoSession
	}
	token, err := s.Status(ctx)
	if err != nil {
		return "", err
	}
	if token.Expired(s.now()) {
		return "", domain.ErrSessionExpired
	}
	return token.Token, nil
}
