package driving

import (
	"context"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// FileCatalog is the canonical cache of file records.
type FileCatalog interface {
	// Refresh replaces the cache with the backend's file list.
	Refresh(ctx context.Context) error

	Files() []domain.FileRecord
	Get(fileID string) (*domain.FileRecord, bool)
	GetByFilename(filename string) (*domain.FileRecord, bool)
	Loading() bool

	// RequestDelete prepares a delete that runs once confirmed.
	RequestDelete(filename string) (Confirmation, error)

	// ToggleVersions expands or collapses the version history of a file.
	ToggleVersions(ctx context.Context, filename string) (bool, error)

	// Versions returns the expanded filename and its versions.
	Versions() (string, []domain.VersionRecord)

	// RestoreVersion promotes an older version to latest.
	RestoreVersion(ctx context.Context, filename, versionID string) error
}

// TagStore caches tag definitions and applies assignments.
type TagStore interface {
	Refresh(ctx context.Context) error
	Tags() []domain.Tag
	Lookup(name string) domain.Tag
	Create(ctx context.Context, name, color string) error
	RequestDelete(name string) (Confirmation, error)

	// Assign sends the complete tag set of a file.
	Assign(ctx context.Context, fileID string, tags []string) error

	// Toggle adds or removes one tag and returns the new set.
	Toggle(ctx context.Context, fileID, tag string) ([]string, error)
}

// SearchController owns search mode, query text and tag filters.
type SearchController interface {
	Mode() domain.SearchMode
	SetMode(mode domain.SearchMode)
	Query() string
	SetQuery(query string)
	TagFilters() []string
	ToggleTagFilter(name string)
	ClearTagFilters()

	// Visible returns the metadata-filtered catalog.
	Visible() []domain.FileRecord

	// Commit runs the semantic query. A blank query reloads the catalog.
	Commit(ctx context.Context) error

	// Results returns semantic hits and whether a query has run.
	Results() ([]domain.SemanticHit, bool)
	Searching() bool
}
