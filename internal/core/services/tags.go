package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure TagStore implements the interface.
var _ driving.TagStore = (*TagStore)(nil)

// TagStore caches tag definitions and applies assignments to the catalog.
type TagStore struct {
	api     driven.TagAPI
	catalog *FileCatalog
	caps    domain.Capabilities

	mu   sync.RWMutex
	tags []domain.Tag
}

// NewTagStore creates an empty tag store that writes assignments into catalog.
func NewTagStore(api driven.TagAPI, catalog *FileCatalog, caps domain.Capabilities) *TagStore {
	return &TagStore{
		api:     api,
		catalog: catalog,
		caps:    caps,
		tags:    []domain.Tag{},
	}
}

// Refresh replaces the cached definitions. On failure the cache is kept.
func (s *TagStore) Refresh(ctx context.Context) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	tags, err := s.api.ListTags(ctx)
	if err != nil {
		return &domain.FetchError{Op: "tags", Err: err}
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
	return nil
}

// Tags returns a snapshot of the cached definitions.
func (s *TagStore) Tags() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tags)
}

// Lookup returns the definition of name, or a default-coloured tag.
func (s *TagStore) Lookup(name string) domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.LookupTag(s.tags, name)
}

// Create defines a new tag. A blank name is rejected without a request.
func (s *TagStore) Create(ctx context.Context, name, color string) error {
	if !s.caps.CanManageTags() {
		return domain.ErrForbidden
	}
	tag, err := domain.NormalizeTag(name, color)
	if err != nil {
		return fmt.Errorf("%w: tag name is required", err)
	}
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if err := s.api.CreateTag(ctx, tag); err != nil {
		return &domain.MutationError{Op: "create tag " + tag.Name, Err: err}
	}
	return s.refreshAfterMutation(ctx)
}

// RequestDelete prepares the deletion of a tag definition.
func (s *TagStore) RequestDelete(name string) (driving.Confirmation, error) {
	if !s.caps.CanManageTags() {
		return nil, domain.ErrForbidden
	}
	return &pendingTagDelete{store: s, name: name}, nil
}

// pendingTagDelete is a tag delete awaiting confirmation.
type pendingTagDelete struct {
	store *TagStore
	name  string
}

func (p *pendingTagDelete) Prompt() string {
	return fmt.Sprintf("Delete tag %q?", p.name)
}

func (p *pendingTagDelete) Confirm(ctx context.Context) error {
	s := p.store
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if err := s.api.DeleteTag(ctx, p.name); err != nil {
		return &domain.MutationError{Op: "delete tag " + p.name, Err: err}
	}
	return s.refreshAfterMutation(ctx)
}

// Assign sends the complete tag set of fileID. The catalog is only updated
// after the backend accepts it. Definitions are then refreshed for counts;
// a failed refresh is logged and does not fail the assignment.
func (s *TagStore) Assign(ctx context.Context, fileID string, tags []string) error {
	if !s.caps.CanTag() {
		return domain.ErrForbidden
	}
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if tags == nil {
		tags = []string{}
	}
	if err := s.api.AssignTags(ctx, fileID, tags); err != nil {
		return &domain.MutationError{Op: "assign tags", Err: err}
	}
	if s.catalog != nil && !s.catalog.applyTags(fileID, tags) {
		logger.Debug("Assigned tags to %s which is not in the catalog", fileID)
	}
	return s.refreshAfterMutation(ctx)
}

// Toggle adds tag to fileID, or removes it if present, and returns the new set.
func (s *TagStore) Toggle(ctx context.Context, fileID, tag string) ([]string, error) {
	if s.catalog == nil {
		return nil, domain.ErrNotImplemented
	}
	file, ok := s.catalog.Get(fileID)
	if !ok {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, fileID)
	}
	next := file.ToggleTag(tag)
	if err := s.Assign(ctx, fileID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *TagStore) refreshAfterMutation(ctx context.Context) error {
	err := s.Refresh(ctx)
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		logger.Warn("Refreshing tags after change: %v", err)
		return nil
	}
	return err
}
