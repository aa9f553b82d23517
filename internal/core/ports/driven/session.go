package driven

import (
	"context"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// IdentityProvider supplies the bearer token for the current session.
type IdentityProvider interface {
	// Token returns the bearer token, domain.ErrNoSession when none is
	// available, or domain.ErrSessionExpired when it is past expiry.
	Token(ctx context.Context) (string, error)
}

// SessionStore persists bearer tokens per profile.
type SessionStore interface {
	Save(ctx context.Context, token domain.StoredToken) error

	// Get returns domain.ErrNotFound when no token is stored for profile.
	Get(ctx context.Context, profile string) (*domain.StoredToken, error)

	Delete(ctx context.Context, profile string) error
	List(ctx context.Context) ([]domain.StoredToken, error)
}

// TokenInspector reads claims from a bearer token without verifying it.
// Verification is the backend's job; the client only needs a display
// name and the expiry.
type TokenInspector interface {
	Inspect(raw string) (*domain.TokenClaims, error)
}
