package driving

import (
	"context"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// AuthService manages the stored bearer token.
type AuthService interface {
	// Login inspects and stores a bearer token for the active profile.
	Login(ctx context.Context, token string) (*domain.StoredToken, error)

	// Logout forgets the stored token.
	Logout(ctx context.Context) error

	// Status returns the stored token, or domain.ErrNoSession.
	Status(ctx context.Context) (*domain.StoredToken, error)
}

// SessionGate turns the stored token into an authenticated workspace.
type SessionGate interface {
	// Open resolves the session and returns the workspace bound to it.
	// Repeated calls with an unchanged token return the same workspace.
	Open(ctx context.Context) (Workspace, error)
}

// Workspace bundles the components of one authenticated session.
type Workspace interface {
	Session() *domain.Session
	View() ViewState
	Catalog() FileCatalog
	Tags() TagStore
	Search() SearchController
	Upload() UploadPipeline
	Preview() PreviewResolver
	Admin() AdminPanel

	// Enter switches to tab and loads the data it shows.
	Enter(ctx context.Context, tab domain.Tab) error
}

// ViewState tracks the active top-level tab.
type ViewState interface {
	Active() domain.Tab
	Tabs() []domain.Tab
	Switch(tab domain.Tab) error
}

// Confirmation is a destructive action awaiting user approval.
// Dropping it without calling Confirm cancels the action.
type Confirmation interface {
	Prompt() string
	Confirm(ctx context.Context) error
}
