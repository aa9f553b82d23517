package driven

import (
	"context"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// IdentityAPI resolves who the token belongs to.
type IdentityAPI interface {
	// CurrentUser returns the raw identity for the bound token.
	CurrentUser(ctx context.Context) (*domain.Identity, error)

	// LogLogin records a login audit event.
	LogLogin(ctx context.Context, event domain.LoginEvent) error
}

// FileAPI reads and mutates the file catalog.
type FileAPI interface {
	ListFiles(ctx context.Context) ([]domain.FileRecord, error)
	DeleteFile(ctx context.Context, filename string) error
	ListVersions(ctx context.Context, filename string) ([]domain.VersionRecord, error)
	RestoreVersion(ctx context.Context, filename, versionID string) error

	// ViewURL returns a short-lived URL for inline viewing.
	ViewURL(ctx context.Context, filename string) (string, error)

	// DownloadURL returns a short-lived URL that forces a download.
	DownloadURL(ctx context.Context, filename string) (string, error)
}

// SearchAPI runs semantic queries.
type SearchAPI interface {
	// Search returns results in relevance order as ranked by the backend.
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// TagAPI manages tag definitions and assignments.
type TagAPI interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, tag domain.Tag) error
	DeleteTag(ctx context.Context, name string) error

	// AssignTags replaces the complete tag set of a file.
	AssignTags(ctx context.Context, fileID string, tags []string) error
}

// UploadAPI issues upload credentials and confirms ingestion.
type UploadAPI interface {
	RequestUploadURL(ctx context.Context, filename, contentType string) (*domain.UploadCredential, error)
	ConfirmIngestion(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
}

// AdminAPI exposes the admin datasets.
type AdminAPI interface {
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	ListUsers(ctx context.Context) ([]domain.UserEntry, error)
	AuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error)
	ExportAuditLogs(ctx context.Context) (*domain.AuditExport, error)
}

// Backend is the complete knowledge base API, bound to one bearer token.
type Backend interface {
	IdentityAPI
	FileAPI
	SearchAPI
	TagAPI
	UploadAPI
	AdminAPI
}

// BackendFactory builds token-bound backends. The token is threaded into
// every outbound request of the returned Backend and never stored globally.
type BackendFactory interface {
	ForToken(token string) Backend
}
