package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure PreviewResolver implements the interface.
var _ driving.PreviewResolver = (*PreviewResolver)(nil)

// Cache key prefixes for the two URL kinds.
const (
	viewKeyPrefix     = "view:"
	downloadKeyPrefix = "download:"
)

// PreviewResolver resolves short-lived view and download URLs and tracks
// the file currently being previewed.
type PreviewResolver struct {
	api      driven.FileAPI
	cache    driven.URLCache
	caps     domain.Capabilities
	launcher func(url string) error

	mu       sync.RWMutex
	selected *domain.Preview
	gen      uint64
}

// NewPreviewResolver creates a resolver. cache may be nil.
func NewPreviewResolver(api driven.FileAPI, cache driven.URLCache, caps domain.Capabilities) *PreviewResolver {
	return &PreviewResolver{
		api:      api,
		cache:    cache,
		caps:     caps,
		launcher: openURL,
	}
}

// Open resolves the view URL of file and selects it. On failure the
// selection is cleared.
func (p *PreviewResolver) Open(ctx context.Context, file domain.FileRecord) (*domain.Preview, error) {
	if p.api == nil {
		return nil, domain.ErrNotImplemented
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	url, err := p.resolve(ctx, viewKeyPrefix, file.Filename, p.api.ViewURL)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, domain.ErrStale
	}
	if err != nil {
		p.selected = nil
		return nil, &domain.FetchError{Op: "view url for " + file.Filename, Err: err}
	}
	p.selected = &domain.Preview{
		File: file,
		URL:  url,
		Kind: domain.ClassifyPreview(file.Filename),
	}
	preview := *p.selected
	return &preview, nil
}

// Selected returns the current preview, or nil.
func (p *PreviewResolver) Selected() *domain.Preview {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selected == nil {
		return nil
	}
	preview := *p.selected
	return &preview
}

// Close clears the selection.
func (p *PreviewResolver) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.selected = nil
}

// DownloadURL resolves a URL that downloads filename.
func (p *PreviewResolver) DownloadURL(ctx context.Context, filename string) (string, error) {
	if !p.caps.CanDownload() {
		return "", domain.ErrForbidden
	}
	if p.api == nil {
		return "", domain.ErrNotImplemented
	}
	url, err := p.resolve(ctx, downloadKeyPrefix, filename, p.api.DownloadURL)
	if err != nil {
		return "", &domain.FetchError{Op: "download url for " + filename, Err: err}
	}
	return url, nil
}

// OpenExternal hands url to the operating system.
func (p *PreviewResolver) OpenExternal(url string) error {
	return p.launcher(url)
}

func (p *PreviewResolver) resolve(
	ctx context.Context,
	prefix, filename string,
	fetch func(context.Context, string) (string, error),
) (string, error) {
	key := prefix + filename
	if p.cache != nil {
		if url, ok := p.cache.Get(key); ok {
			logger.Debug("URL cache hit for %s", key)
			return url, nil
		}
	}
	url, err := fetch(ctx, filename)
	if err != nil {
		return "", err
	}
	if p.cache != nil {
		p.cache.Add(key, url)
	}
	return url, nil
}

// catalogReplaced implements catalogListener.
func (p *PreviewResolver) catalogReplaced() {}

// fileRemoved implements catalogListener. Cached URLs for the file are
// dropped and an open preview of it is closed.
func (p *PreviewResolver) fileRemoved(filename string) {
	if p.cache != nil {
		p.cache.Remove(viewKeyPrefix + filename)
		p.cache.Remove(downloadKeyPrefix + filename)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected != nil && p.selected.File.Filename == filename {
		p.selected = nil
		p.gen++
	}
}
