package domain

import (
	"slices"
	"time"
)

// Group names recognised by the client.
const (
	GroupContributors = "Contributors"
	GroupAdmins       = "Admins"
)

// Session is the resolved identity of the signed-in user.
// It is immutable for the lifetime of the token it was built from.
type Session struct {
	// Token is the opaque bearer credential.
	Token string

	// Username is the display name reported by the backend.
	Username string

	// Groups is the role set. Empty when identity lookup failed.
	Groups []string

	// Degraded is set when the identity lookup failed and the session
	// continues with an empty role set.
	Degraded bool
}

// HasGroup reports whether the role set contains the named group.
func (s *Session) HasGroup(name string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Groups, name)
}

// Capabilities derives the gated affordances from the role set.
func (s *Session) Capabilities() Capabilities {
	admin := s.HasGroup(GroupAdmins)
	return Capabilities{
		Contributor: admin || s.HasGroup(GroupContributors),
		Admin:       admin,
	}
}

// Capabilities describes what the UI exposes for a role set.
// Admins are always treated as contributors.
type Capabilities struct {
	Contributor bool
	Admin       bool
}

// CanUpload reports whether the upload tab is reachable.
func (c Capabilities) CanUpload() bool { return c.Contributor }

// CanDelete reports whether files can be deleted.
func (c Capabilities) CanDelete() bool { return c.Contributor }

// CanTag reports whether tags can be assigned to files.
func (c Capabilities) CanTag() bool { return c.Contributor }

// CanViewVersions reports whether version history is exposed.
func (c Capabilities) CanViewVersions() bool { return c.Contributor }

// CanDownload reports whether download links are exposed.
func (c Capabilities) CanDownload() bool { return c.Contributor }

// CanManageTags reports whether tags can be created and deleted.
func (c Capabilities) CanManageTags() bool { return c.Admin }

// CanAdminister reports whether the admin tab is reachable.
func (c Capabilities) CanAdminister() bool { return c.Admin }

// Identity is the raw identity payload returned by the backend.
// Groups is left untyped so malformed payloads can be coerced.
type Identity struct {
	Username string
	Groups   any
}

// CoerceGroups returns groups as a string list, or an empty list when the
// value is not a well-formed list of strings.
func CoerceGroups(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		groups := make([]string, 0, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return []string{}
			}
			groups = append(groups, name)
		}
		return groups
	default:
		return []string{}
	}
}

// LoginEvent is the best-effort login audit record.
type LoginEvent struct {
	Username string
	Source   string
}

// LoginSourceWeb is the source label the backend expects for interactive logins.
const LoginSourceWeb = "web"

// StoredToken is a persisted bearer credential.
type StoredToken struct {
	Profile   string
	Token     string
	Subject   string
	ExpiresAt time.Time
	SavedAt   time.Time
}

// Expired reports whether the token has a known expiry in the past.
func (t *StoredToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// TokenClaims are the unverified claims read from a bearer token.
type TokenClaims struct {
	Subject   string
	Username  string
	ExpiresAt time.Time
}

// DefaultProfile is the profile name used when none is given.
const DefaultProfile = "default"
