// Package jwtclaims reads display claims from bearer tokens without
// verifying them. The backend verifies every request.
package jwtclaims

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.TokenInspector = (*Inspector)(nil)

// ErrNoClaims is returned for tokens that are not JWTs.
var ErrNoClaims = errors.New("token carries no readable claims")

// Inspector parses JWT payloads.
type Inspector struct {
	parser *jwt.Parser
}

// New creates an inspector.
func New() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// Inspect returns the subject, username and expiry of raw. Cognito access
// tokens carry the username as "username"; ID tokens as "cognito:username".
func (i *Inspector) Inspect(raw string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoClaims, err)
	}

	out := &domain.TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	for _, key := range []string{"username", "cognito:username", "preferred_username"} {
		if name, ok := claims[key].(string); ok && name != "" {
			out.Username = name
			break
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time.UTC()
	}
	return out, nil
}
