package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure AdminPanel implements the interface.
var _ driving.AdminPanel = (*AdminPanel)(nil)

// AdminPanel loads stats, the user directory and the audit log side by
// side. Each dataset succeeds or fails on its own.
type AdminPanel struct {
	api  driven.AdminAPI
	caps domain.Capabilities
	now  func() time.Time

	mu      sync.RWMutex
	stats   domain.AdminStats
	users   []domain.UserEntry
	logs    []domain.AuditLogEntry
	banner  string
	loading bool
	loaded  bool
}

// NewAdminPanel creates an empty panel.
func NewAdminPanel(api driven.AdminAPI, caps domain.Capabilities) *AdminPanel {
	return &AdminPanel{
		api:  api,
		caps: caps,
		now:  time.Now,
	}
}

// Load fetches all three datasets concurrently and waits for every one to
// settle. Failed datasets render empty and are listed in the banner, in
// the fixed order stats, users, logs. The loading flag is only raised for
// the first load.
func (p *AdminPanel) Load(ctx context.Context) error {
	if !p.caps.CanAdminister() {
		return domain.ErrForbidden
	}
	if p.api == nil {
		return domain.ErrNotImplemented
	}

	p.mu.Lock()
	if !p.loaded {
		p.loading = true
	}
	p.mu.Unlock()

	var (
		stats                       *domain.AdminStats
		users                       []domain.UserEntry
		logs                        []domain.AuditLogEntry
		statsErr, usersErr, logsErr error
		g                           errgroup.Group
	)
	g.Go(func() error {
		stats, statsErr = p.api.AdminStats(ctx)
		return nil
	})
	g.Go(func() error {
		users, usersErr = p.api.ListUsers(ctx)
		return nil
	})
	g.Go(func() error {
		logs, logsErr = p.api.AuditLogs(ctx)
		return nil
	})
	_ = g.Wait()

	partial := &domain.PartialAdminError{}

	p.mu.Lock()
	defer p.mu.Unlock()

	if statsErr != nil || stats == nil {
		p.stats = domain.AdminStats{}
		if statsErr != nil {
			partial.Failures = append(partial.Failures, domain.AdminFailure{Source: domain.AdminSourceStats, Err: statsErr})
		}
	} else {
		p.stats = *stats
	}
	if usersErr != nil {
		p.users = nil
		partial.Failures = append(partial.Failures, domain.AdminFailure{Source: domain.AdminSourceUsers, Err: usersErr})
	} else {
		p.users = users
	}
	if logsErr != nil {
		p.logs = nil
		partial.Failures = append(partial.Failures, domain.AdminFailure{Source: domain.AdminSourceLogs, Err: logsErr})
	} else {
		p.logs = logs
	}

	p.loading = false
	p.loaded = true
	p.banner = ""
	if len(partial.Failures) > 0 {
		p.banner = partial.Banner()
		logger.Warn("Admin load: %s", p.banner)
		return partial
	}
	return nil
}

// Overview returns everything the panel shows.
func (p *AdminPanel) Overview() domain.AdminOverview {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]domain.UserPresence, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, domain.UserPresence{
			UserEntry: u,
			Online:    p.stats.IsOnline(u.Username),
		})
	}
	stats := p.stats
	stats.OnlineUsersList = slices.Clone(p.stats.OnlineUsersList)
	return domain.AdminOverview{
		Stats:   stats,
		Users:   users,
		Logs:    slices.Clone(p.logs),
		Banner:  p.banner,
		Loading: p.loading,
	}
}

// Export downloads the audit log. When the backend suggests no filename
// a dated one is used.
func (p *AdminPanel) Export(ctx context.Context) (*domain.AuditExport, error) {
	if !p.caps.CanAdminister() {
		return nil, domain.ErrForbidden
	}
	if p.api == nil {
		return nil, domain.ErrNotImplemented
	}
	export, err := p.api.ExportAuditLogs(ctx)
	if err != nil {
		return nil, &domain.FetchError{Op: "audit export", Err: err}
	}
	if export.Filename == "" {
		export.Filename = domain.AuditExportFilename(p.now())
	}
	return export, nil
}
