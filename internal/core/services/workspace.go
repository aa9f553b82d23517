package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// completionTimeout bounds the catalog reload that follows an upload.
const completionTimeout = 30 * time.Second

// WorkspaceOptions carries the non-backend dependencies of a workspace.
type WorkspaceOptions struct {
	ObjectStore      driven.ObjectStore
	LocalFiles       driven.LocalFiles
	URLCache         driven.URLCache
	UploadResetDelay time.Duration
}

// Workspace holds the components of one authenticated session, all
// bound to the same token-scoped backend.
type Workspace struct {
	session *domain.Session
	view    *ViewState
	catalog *FileCatalog
	tags    *TagStore
	search  *SearchController
	upload  *UploadPipeline
	preview *PreviewResolver
	admin   *AdminPanel
}

// NewWorkspace builds the components for a resolved session.
func NewWorkspace(res *Resolution, opts WorkspaceOptions) *Workspace {
	caps := res.Session.Capabilities()
	backend := res.Backend

	catalog := NewFileCatalog(backend, caps)
	w := &Workspace{
		session: res.Session,
		view:    NewViewState(caps),
		catalog: catalog,
		tags:    NewTagStore(backend, catalog, caps),
		search:  NewSearchController(backend, catalog),
		upload:  NewUploadPipeline(backend, opts.ObjectStore, opts.LocalFiles, caps, opts.UploadResetDelay),
		preview: NewPreviewResolver(backend, opts.URLCache, caps),
		admin:   NewAdminPanel(backend, caps),
	}
	catalog.subscribe(w.preview)
	w.upload.OnComplete(w.uploadCompleted)
	return w
}

func (w *Workspace) Session() *domain.Session { return w.session }
func (w *Workspace) View() driving.ViewState { return w.view }
func (w *Workspace) Catalog() driving.FileCatalog { return w.catalog }
func (w *Workspace) Tags() driving.TagStore { return w.tags }
func (w *Workspace) Search() driving.SearchController { return w.search }
func (w *Workspace) Upload() driving.UploadPipeline { return w.upload }
func (w *Workspace) Preview() driving.PreviewResolver { return w.preview }
func (w *Workspace) Admin() driving.AdminPanel { return w.admin }

// Enter switches to tab and loads what it shows. Browse fetches files and
// tags together; admin loads the admin datasets.
func (w *Workspace) Enter(ctx context.Context, tab domain.Tab) error {
	if err := w.view.Switch(tab); err != nil {
		return err
	}
	switch tab {
	case domain.TabBrowse:
		return w.loadBrowse(ctx)
	case domain.TabAdmin:
		return w.admin.Load(ctx)
	case domain.TabUpload:
	}
	return nil
}

func (w *Workspace) loadBrowse(ctx context.Context) error {
	var (
		g                 errgroup.Group
		filesErr, tagsErr error
	)
	g.Go(func() error {
		filesErr = w.catalog.Refresh(ctx)
		return nil
	})
	g.Go(func() error {
		tagsErr = w.tags.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	if errors.Is(filesErr, domain.ErrStale) {
		filesErr = nil
	}
	return errors.Join(filesErr, tagsErr)
}

// uploadCompleted reloads the catalog and moves to the browser once a
// successful upload has been shown.
func (w *Workspace) uploadCompleted() {
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	if err := w.catalog.Refresh(ctx); err != nil && !errors.Is(err, domain.ErrStale) {
		logger.Warn("Reloading files after upload: %v", err)
	}
	if err := w.view.Switch(domain.TabBrowse); err != nil {
		logger.Warn("Switching to browse after upload: %v", err)
	}
}
