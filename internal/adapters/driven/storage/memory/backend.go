package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interfaces.
var (
	_ driven.Backend        = (*Backend)(nil)
	_ driven.BackendFactory = (*Backend)(nil)
	_ driven.ObjectStore    = (*Backend)(nil)
)

// Operation names accepted by Backend.Fail.
const (
	OpIdentity   = "identity"
	OpLogLogin   = "log_login"
	OpListFiles  = "list_files"
	OpDelete     = "delete"
	OpVersions   = "versions"
	OpRestore    = "restore"
	OpViewURL    = "view_url"
	OpDownload   = "download_url"
	OpSearch     = "search"
	OpListTags   = "list_tags"
	OpCreateTag  = "create_tag"
	OpDeleteTag  = "delete_tag"
	OpAssign     = "assign"
	OpUploadURL  = "upload_url"
	OpPut        = "put"
	OpIngest     = "ingest"
	OpStats      = "stats"
	OpUsers      = "users"
	OpAuditLogs  = "audit_logs"
	OpExportLogs = "export"
)

// Backend is an in-memory knowledge base implementing driven.Backend.
// It also acts as the object store receiving direct uploads. Every token
// maps to the same backend.
type Backend struct {
	mu       sync.RWMutex
	identity *domain.Identity
	files    []domain.FileRecord
	versions map[string][]domain.VersionRecord
	tags     []domain.Tag
	results  []domain.SearchResult
	stats    domain.AdminStats
	users    []domain.UserEntry
	logs     []domain.AuditLogEntry
	objects  map[string][]byte
	ingest   domain.IngestResult
	failures map[string]error
	logins   []domain.LoginEvent
	queries  []string
}

// NewBackend creates an empty backend for a user with the given groups.
func NewBackend(username string, groups ...string) *Backend {
	return &Backend{
		identity: &domain.Identity{Username: username, Groups: slices.Clone(groups)},
		versions: make(map[string][]domain.VersionRecord),
		objects:  make(map[string][]byte),
		ingest:   domain.IngestResult{Status: domain.IngestIndexed},
		failures: make(map[string]error),
	}
}

// ForToken returns the backend itself.
func (b *Backend) ForToken(string) driven.Backend {
	return b
}

// Fail makes op return err until cleared with a nil err.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

func (b *Backend) failure(op string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.failures[op]
}

// AddFile stores a file record with a single latest version.
func (b *Backend) AddFile(file domain.FileRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putFileLocked(file)
}

func (b *Backend) putFileLocked(file domain.FileRecord) {
	if file.Tags == nil {
		file.Tags = []string{}
	}
	b.files = slices.DeleteFunc(b.files, func(f domain.FileRecord) bool {
		return f.Filename == file.Filename
	})
	b.files = append(b.files, file)

	for i := range b.versions[file.Filename] {
		b.versions[file.Filename][i].IsLatest = false
	}
	b.versions[file.Filename] = append([]domain.VersionRecord{{
		VersionID:    fmt.Sprintf("v%d", len(b.versions[file.Filename])+1),
		LastModified: time.Now().UTC(),
		Size:         file.Size,
		IsLatest:     true,
	}}, b.versions[file.Filename]...)
}

// SetVersions replaces the history of a file.
func (b *Backend) SetVersions(filename string, versions []domain.VersionRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.versions[filename] = slices.Clone(versions)
}

// AddTag stores a tag definition.
func (b *Backend) AddTag(tag domain.Tag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tags = append(b.tags, tag)
}

// SetSearchResults sets the hits returned for every query.
func (b *Backend) SetSearchResults(results []domain.SearchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = slices.Clone(results)
}

// SetAdmin sets the admin datasets.
func (b *Backend) SetAdmin(stats domain.AdminStats, users []domain.UserEntry, logs []domain.AuditLogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = stats
	b.users = slices.Clone(users)
	b.logs = slices.Clone(logs)
}

// SetIngestResult sets the outcome reported for ingestion requests.
func (b *Backend) SetIngestResult(result domain.IngestResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ingest = result
}

// Logins returns the recorded login audits.
func (b *Backend) Logins() []domain.LoginEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.logins)
}

// Queries returns the semantic queries received, in order.
func (b *Backend) Queries() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.queries)
}

// Object returns the bytes stored at an object URL.
func (b *Backend) Object(url string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.objects[domain.ObjectURL(url)]
	return data, ok
}

// CurrentUser returns the configured identity.
func (b *Backend) CurrentUser(_ context.Context) (*domain.Identity, error) {
	if err := b.failure(OpIdentity); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	id := *b.identity
	return &id, nil
}

// LogLogin records a login audit.
func (b *Backend) LogLogin(_ context.Context, event domain.LoginEvent) error {
	if err := b.failure(OpLogLogin); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logins = append(b.logins, event)
	return nil
}

// ListFiles returns copies of the stored records.
func (b *Backend) ListFiles(_ context.Context) ([]domain.FileRecord, error) {
	if err := b.failure(OpListFiles); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	files := make([]domain.FileRecord, len(b.files))
	for i, f := range b.files {
		f.Tags = slices.Clone(f.Tags)
		files[i] = f
	}
	return files, nil
}

// DeleteFile removes a file and its history.
func (b *Backend) DeleteFile(_ context.Context, filename string) error {
	if err := b.failure(OpDelete); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.files)
	b.files = slices.DeleteFunc(b.files, func(f domain.FileRecord) bool {
		return f.Filename == filename
	})
	if len(b.files) == n {
		return domain.ErrNotFound
	}
	delete(b.versions, filename)
	return nil
}

// ListVersions returns the history of a file, newest first.
func (b *Backend) ListVersions(_ context.Context, filename string) ([]domain.VersionRecord, error) {
	if err := b.failure(OpVersions); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.versions[filename]), nil
}

// RestoreVersion marks versionID as the latest.
func (b *Backend) RestoreVersion(_ context.Context, filename, versionID string) error {
	if err := b.failure(OpRestore); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	versions := b.versions[filename]
	idx := slices.IndexFunc(versions, func(v domain.VersionRecord) bool {
		return v.VersionID == versionID
	})
	if idx < 0 {
		return domain.ErrNotFound
	}
	for i := range versions {
		versions[i].IsLatest = i == idx
	}
	return nil
}

// ViewURL returns a fake presigned view link.
func (b *Backend) ViewURL(_ context.Context, filename string) (string, error) {
	if err := b.failure(OpViewURL); err != nil {
		return "", err
	}
	return "memory://view/" + filename + "?signature=view", nil
}

// DownloadURL returns a fake presigned download link.
func (b *Backend) DownloadURL(_ context.Context, filename string) (string, error) {
	if err := b.failure(OpDownload); err != nil {
		return "", err
	}
	return "memory://download/" + filename + "?signature=download", nil
}

// Search records the query and returns the configured hits.
func (b *Backend) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	if err := b.failure(OpSearch); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, query)
	return slices.Clone(b.results), nil
}

// ListTags returns the tag definitions with usage counts.
func (b *Backend) ListTags(_ context.Context) ([]domain.Tag, error) {
	if err := b.failure(OpListTags); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	tags := make([]domain.Tag, len(b.tags))
	for i, t := range b.tags {
		t.Count = 0
		for _, f := range b.files {
			if f.HasTag(t.Name) {
				t.Count++
			}
		}
		tags[i] = t
	}
	return tags, nil
}

// CreateTag adds a definition. Names are unique.
func (b *Backend) CreateTag(_ context.Context, tag domain.Tag) error {
	if err := b.failure(OpCreateTag); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.ContainsFunc(b.tags, func(t domain.Tag) bool { return t.Name == tag.Name }) {
		return fmt.Errorf("%w: tag %q exists", domain.ErrInvalidInput, tag.Name)
	}
	b.tags = append(b.tags, tag)
	return nil
}

// DeleteTag removes a definition and strips it from every file.
func (b *Backend) DeleteTag(_ context.Context, name string) error {
	if err := b.failure(OpDeleteTag); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tags = slices.DeleteFunc(b.tags, func(t domain.Tag) bool { return t.Name == name })
	for i := range b.files {
		b.files[i].Tags = slices.DeleteFunc(b.files[i].Tags, func(t string) bool { return t == name })
	}
	return nil
}

// AssignTags replaces the tag set of a file.
func (b *Backend) AssignTags(_ context.Context, fileID string, tags []string) error {
	if err := b.failure(OpAssign); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.files {
		if b.files[i].FileID == fileID {
			b.files[i].Tags = slices.Clone(tags)
			return nil
		}
	}
	return domain.ErrNotFound
}

// RequestUploadURL returns a fake presigned upload link.
func (b *Backend) RequestUploadURL(_ context.Context, filename, _ string) (*domain.UploadCredential, error) {
	if err := b.failure(OpUploadURL); err != nil {
		return nil, err
	}
	return &domain.UploadCredential{
		UploadURL: "memory://objects/" + filename + "?signature=upload",
		Filename:  filename,
	}, nil
}

// Put stores the body under the object URL.
func (b *Backend) Put(_ context.Context, url, _ string, body io.Reader, size int64) error {
	if err := b.failure(OpPut); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	if size >= 0 && int64(buf.Len()) != size {
		return fmt.Errorf("short body: got %d of %d bytes", buf.Len(), size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[domain.ObjectURL(url)] = buf.Bytes()
	return nil
}

// ConfirmIngestion adds the uploaded object to the file list.
func (b *Backend) ConfirmIngestion(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if err := b.failure(OpIngest); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[req.UploadURL]; !ok {
		return nil, fmt.Errorf("%w: no object at %s", domain.ErrNotFound, req.UploadURL)
	}
	result := b.ingest
	result.FileID = req.FileID
	status := "indexed"
	if !result.Indexed() {
		status = "failed"
	}
	b.putFileLocked(domain.FileRecord{
		FileID:      req.FileID,
		Filename:    req.Filename,
		Size:        req.Size,
		ContentType: req.ContentType,
		Status:      status,
	})
	return &result, nil
}

// AdminStats returns the configured stats.
func (b *Backend) AdminStats(_ context.Context) (*domain.AdminStats, error) {
	if err := b.failure(OpStats); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	stats := b.stats
	stats.TotalFiles = len(b.files)
	return &stats, nil
}

// ListUsers returns the configured directory.
func (b *Backend) ListUsers(_ context.Context) ([]domain.UserEntry, error) {
	if err := b.failure(OpUsers); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.users), nil
}

// AuditLogs returns the configured audit records.
func (b *Backend) AuditLogs(_ context.Context) ([]domain.AuditLogEntry, error) {
	if err := b.failure(OpAuditLogs); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.logs), nil
}

// ExportAuditLogs renders the audit records as CSV.
func (b *Backend) ExportAuditLogs(_ context.Context) (*domain.AuditExport, error) {
	if err := b.failure(OpExportLogs); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	sb.WriteString("timestamp,user,method,path,status_code\n")
	for _, l := range b.logs {
		fmt.Fprintf(&sb, "%s,%s,%s,%s,%d\n",
			l.Timestamp.UTC().Format(time.RFC3339), l.User, l.Method, l.Path, l.StatusCode)
	}
	return &domain.AuditExport{ContentType: "text/csv", Data: []byte(sb.String())}, nil
}
