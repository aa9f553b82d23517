package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure SessionGate implements the interface.
var _ driving.SessionGate = (*SessionGate)(nil)

// loginAuditTimeout bounds the fire-and-forget login audit call.
const loginAuditTimeout = 10 * time.Second

// Resolution is a resolved session and the backend bound to its token.
type Resolution struct {
	Session *domain.Session
	Backend driven.Backend
}

// SessionGate resolves the signed-in user's identity once per token.
type SessionGate struct {
	identity driven.IdentityProvider
	backends driven.BackendFactory
	opts     WorkspaceOptions

	mu        sync.Mutex
	token     string
	workspace *Workspace
	audits    sync.WaitGroup
}

// NewSessionGate creates a gate.
func NewSessionGate(identity driven.IdentityProvider, backends driven.BackendFactory, opts WorkspaceOptions) *SessionGate {
	return &SessionGate{
		identity: identity,
		backends: backends,
		opts:     opts,
	}
}

// Resolve reads the identity behind the current token. An identity lookup
// failure does not end the session: it continues with an empty role set
// and is marked degraded. Malformed group lists are treated as empty.
// Non-empty role sets trigger a best-effort login audit.
func (g *SessionGate) Resolve(ctx context.Context) (*Resolution, error) {
	if g.identity == nil || g.backends == nil {
		return nil, domain.ErrNotImplemented
	}
	token, err := g.identity.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrNoSession
	}

	logger.Section("Session")
	backend := g.backends.ForToken(token)
	session := &domain.Session{Token: token, Groups: []string{}}

	identity, err := backend.CurrentUser(ctx)
	if err != nil {
		logger.Warn("Identity lookup failed, continuing without roles: %v", err)
		session.Degraded = true
	} else {
		session.Username = identity.Username
		session.Groups = domain.CoerceGroups(identity.Groups)
	}
	logger.Debug("User %q groups %v", session.Username, session.Groups)

	if len(session.Groups) > 0 {
		g.auditLogin(ctx, backend, session.Username)
	}

	return &Resolution{Session: session, Backend: backend}, nil
}

// auditLogin records the login without blocking the caller.
func (g *SessionGate) auditLogin(ctx context.Context, backend driven.IdentityAPI, username string) {
	g.audits.Add(1)
	go func() {
		defer g.audits.Done()
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginAuditTimeout)
		defer cancel()
		event := domain.LoginEvent{Username: username, Source: domain.LoginSourceWeb}
		if err := backend.LogLogin(actx, event); err != nil {
			logger.Warn("Login audit failed: %v", err)
		}
	}()
}

// Wait blocks until pending login audits finish.
func (g *SessionGate) Wait() {
	g.audits.Wait()
}

// Open returns the workspace for the current token, resolving the session
// only when the token has changed.
func (g *SessionGate) Open(ctx context.Context) (driving.Workspace, error) {
	return g.open(ctx)
}

func (g *SessionGate) open(ctx context.Context) (*Workspace, error) {
	if g.identity == nil {
		return nil, domain.ErrNotImplemented
	}
	token, err := g.identity.Token(ctx)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.workspace != nil && g.token == token {
		return g.workspace, nil
	}

	res, err := g.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	g.token = res.Session.Token
	g.workspace = NewWorkspace(res, g.opts)
	return g.workspace, nil
}
