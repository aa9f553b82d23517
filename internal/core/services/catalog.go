package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure FileCatalog implements the interface.
var _ driving.FileCatalog = (*FileCatalog)(nil)

// catalogListener is notified after the catalog changes, outside the catalog lock.
type catalogListener interface {
	catalogReplaced()
	fileRemoved(filename string)
}

// FileCatalog is the canonical store of file records. Other views hold
// keys into it rather than copies, so tag changes are visible everywhere.
type FileCatalog struct {
	api  driven.FileAPI
	caps domain.Capabilities

	mu         sync.RWMutex
	files      []domain.FileRecord
	generation uint64
	loading    bool
	listeners  []catalogListener

	expanded   string
	versions   []domain.VersionRecord
	versionGen uint64
}

// NewFileCatalog creates an empty catalog.
func NewFileCatalog(api driven.FileAPI, caps domain.Capabilities) *FileCatalog {
	return &FileCatalog{
		api:   api,
		caps:  caps,
		files: []domain.FileRecord{},
	}
}

func (c *FileCatalog) subscribe(l catalogListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Refresh replaces the cache with the backend's list. Only the newest
// request may apply; older responses return domain.ErrStale. On failure
// the previous cache is kept.
func (c *FileCatalog) Refresh(ctx context.Context) error {
	if c.api == nil {
		return domain.ErrNotImplemented
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	files, err := c.api.ListFiles(ctx)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Debug("Discarding stale file list (generation %d)", gen)
		return domain.ErrStale
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return &domain.FetchError{Op: "files", Err: err}
	}
	if files == nil {
		files = []domain.FileRecord{}
	}
	c.files = files
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	logger.Debug("Catalog replaced with %d files", len(files))
	for _, l := range listeners {
		l.catalogReplaced()
	}
	return nil
}

// Files returns a snapshot of the cached records in backend order.
func (c *FileCatalog) Files() []domain.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.files)
}

// Get returns the record with fileID.
func (c *FileCatalog) Get(fileID string) (*domain.FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.files {
		if c.files[i].FileID == fileID {
			f := c.files[i]
			return &f, true
		}
	}
	return nil, false
}

// GetByFilename returns the first record with filename.
func (c *FileCatalog) GetByFilename(filename string) (*domain.FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.files {
		if c.files[i].Filename == filename {
			f := c.files[i]
			return &f, true
		}
	}
	return nil, false
}

// Loading reports whether a refresh is in flight.
func (c *FileCatalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// applyTags replaces the tag set of fileID after the backend accepted it.
func (c *FileCatalog) applyTags(fileID string, tags []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.files {
		if c.files[i].FileID == fileID {
			c.files[i].Tags = slices.Clone(tags)
			return true
		}
	}
	return false
}

// RequestDelete prepares the deletion of filename. Nothing is sent until
// the returned confirmation is confirmed.
func (c *FileCatalog) RequestDelete(filename string) (driving.Confirmation, error) {
	if !c.caps.CanDelete() {
		return nil, domain.ErrForbidden
	}
	if _, ok := c.GetByFilename(filename); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
	}
	return &pendingFileDelete{catalog: c, filename: filename}, nil
}

// pendingFileDelete is a file delete awaiting confirmation.
type pendingFileDelete struct {
	catalog  *FileCatalog
	filename string
}

func (p *pendingFileDelete) Prompt() string {
	return fmt.Sprintf("Delete %s? This cannot be undone.", p.filename)
}

func (p *pendingFileDelete) Confirm(ctx context.Context) error {
	return p.catalog.deleteConfirmed(ctx, p.filename)
}

func (c *FileCatalog) deleteConfirmed(ctx context.Context, filename string) error {
	if c.api == nil {
		return domain.ErrNotImplemented
	}
	if err := c.api.DeleteFile(ctx, filename); err != nil {
		return &domain.MutationError{Op: "delete " + filename, Err: err}
	}

	c.mu.Lock()
	c.files = slices.DeleteFunc(c.files, func(f domain.FileRecord) bool {
		return f.Filename == filename
	})
	if c.expanded == filename {
		c.expanded = ""
		c.versions = nil
		c.versionGen++
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	logger.Info("Deleted %s", filename)
	for _, l := range listeners {
		l.fileRemoved(filename)
	}
	return nil
}

// ToggleVersions collapses the history of filename if it is expanded and
// otherwise fetches and expands it. At most one file is expanded. A late
// response for a file that is no longer expanded returns domain.ErrStale.
func (c *FileCatalog) ToggleVersions(ctx context.Context, filename string) (bool, error) {
	if !c.caps.CanViewVersions() {
		return false, domain.ErrForbidden
	}
	if c.api == nil {
		return false, domain.ErrNotImplemented
	}

	c.mu.Lock()
	c.versionGen++
	if c.expanded == filename {
		c.expanded = ""
		c.versions = nil
		c.mu.Unlock()
		return false, nil
	}
	gen := c.versionGen
	c.expanded = filename
	c.versions = nil
	c.mu.Unlock()

	return true, c.loadVersions(ctx, filename, gen)
}

// loadVersions fetches the history of filename and applies it if gen is current.
func (c *FileCatalog) loadVersions(ctx context.Context, filename string, gen uint64) error {
	versions, err := c.api.ListVersions(ctx, filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.versionGen || c.expanded != filename {
		return domain.ErrStale
	}
	if err != nil {
		c.expanded = ""
		c.versions = nil
		return &domain.FetchError{Op: "versions of " + filename, Err: err}
	}
	if versions == nil {
		versions = []domain.VersionRecord{}
	}
	c.versions = versions
	return nil
}

// Versions returns the expanded filename and its history.
func (c *FileCatalog) Versions() (string, []domain.VersionRecord) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expanded, slices.Clone(c.versions)
}

// RestoreVersion promotes versionID to the latest version of filename and
// reloads the history if it is expanded.
func (c *FileCatalog) RestoreVersion(ctx context.Context, filename, versionID string) error {
	if !c.caps.CanViewVersions() {
		return domain.ErrForbidden
	}
	if c.api == nil {
		return domain.ErrNotImplemented
	}

	c.mu.RLock()
	expanded := c.expanded == filename
	for _, v := range c.versions {
		if expanded && v.VersionID == versionID && v.IsLatest {
			c.mu.RUnlock()
			return domain.ErrAlreadyLatest
		}
	}
	c.mu.RUnlock()

	if err := c.api.RestoreVersion(ctx, filename, versionID); err != nil {
		return &domain.MutationError{Op: "restore " + filename, Err: err}
	}
	logger.Info("Restored %s to version %s", filename, versionID)

	c.mu.Lock()
	if c.expanded != filename {
		c.mu.Unlock()
		return nil
	}
	c.versionGen++
	gen := c.versionGen
	c.mu.Unlock()

	if err := c.loadVersions(ctx, filename, gen); err != nil {
		logger.Warn("Reloading versions after restore: %v", err)
	}
	return nil
}
