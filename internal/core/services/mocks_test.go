package services

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// mockBackend implements driven.Backend with overridable functions.
// Unset functions return zero values and count their calls.
type mockBackend struct {
	mu    sync.Mutex
	calls map[string]int

	CurrentUserFunc      func(ctx context.Context) (*domain.Identity, error)
	LogLoginFunc         func(ctx context.Context, event domain.LoginEvent) error
	ListFilesFunc        func(ctx context.Context) ([]domain.FileRecord, error)
	DeleteFileFunc       func(ctx context.Context, filename string) error
	ListVersionsFunc     func(ctx context.Context, filename string) ([]domain.VersionRecord, error)
	RestoreVersionFunc   func(ctx context.Context, filename, versionID string) error
	ViewURLFunc          func(ctx context.Context, filename string) (string, error)
	DownloadURLFunc      func(ctx context.Context, filename string) (string, error)
	SearchFunc           func(ctx context.Context, query string) ([]domain.SearchResult, error)
	ListTagsFunc         func(ctx context.Context) ([]domain.Tag, error)
	CreateTagFunc        func(ctx context.Context, tag domain.Tag) error
	DeleteTagFunc        func(ctx context.Context, name string) error
	AssignTagsFunc       func(ctx context.Context, fileID string, tags []string) error
	RequestUploadURLFunc func(ctx context.Context, filename, contentType string) (*domain.UploadCredential, error)
	ConfirmIngestionFunc func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
	AdminStatsFunc       func(ctx context.Context) (*domain.AdminStats, error)
	ListUsersFunc        func(ctx context.Context) ([]domain.UserEntry, error)
	AuditLogsFunc        func(ctx context.Context) ([]domain.AuditLogEntry, error)
	ExportAuditLogsFunc  func(ctx context.Context) (*domain.AuditExport, error)
}

var _ driven.Backend = (*mockBackend)(nil)

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how often the named method was called.
func (m *mockBackend) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockBackend) CurrentUser(ctx context.Context) (*domain.Identity, error) {
	m.record("CurrentUser")
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &domain.Identity{}, nil
}

func (m *mockBackend) LogLogin(ctx context.Context, event domain.LoginEvent) error {
	m.record("LogLogin")
	if m.LogLoginFunc != nil {
		return m.LogLoginFunc(ctx, event)
	}
	return nil
}

func (m *mockBackend) ListFiles(ctx context.Context) ([]domain.FileRecord, error) {
	m.record("ListFiles")
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) DeleteFile(ctx context.Context, filename string) error {
	m.record("DeleteFile")
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, filename)
	}
	return nil
}

func (m *mockBackend) ListVersions(ctx context.Context, filename string) ([]domain.VersionRecord, error) {
	m.record("ListVersions")
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, filename)
	}
	return nil, nil
}

func (m *mockBackend) RestoreVersion(ctx context.Context, filename, versionID string) error {
	m.record("RestoreVersion")
	if m.RestoreVersionFunc != nil {
		return m.RestoreVersionFunc(ctx, filename, versionID)
	}
	return nil
}

func (m *mockBackend) ViewURL(ctx context.Context, filename string) (string, error) {
	m.record("ViewURL")
	if m.ViewURLFunc != nil {
		return m.ViewURLFunc(ctx, filename)
	}
	return "https://objects.example/" + filename + "?sig=view", nil
}

func (m *mockBackend) DownloadURL(ctx context.Context, filename string) (string, error) {
	m.record("DownloadURL")
	if m.DownloadURLFunc != nil {
		return m.DownloadURLFunc(ctx, filename)
	}
	return "https://objects.example/" + filename + "?sig=download", nil
}

func (m *mockBackend) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockBackend) ListTags(ctx context.Context) ([]domain.Tag, error) {
	m.record("ListTags")
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) CreateTag(ctx context.Context, tag domain.Tag) error {
	m.record("CreateTag")
	if m.CreateTagFunc != nil {
		return m.CreateTagFunc(ctx, tag)
	}
	return nil
}

func (m *mockBackend) DeleteTag(ctx context.Context, name string) error {
	m.record("DeleteTag")
	if m.DeleteTagFunc != nil {
		return m.DeleteTagFunc(ctx, name)
	}
	return nil
}

func (m *mockBackend) AssignTags(ctx context.Context, fileID string, tags []string) error {
	m.record("AssignTags")
	if m.AssignTagsFunc != nil {
		return m.AssignTagsFunc(ctx, fileID, tags)
	}
	return nil
}

func (m *mockBackend) RequestUploadURL(ctx context.Context, filename, contentType string) (*domain.UploadCredential, error) {
	m.record("RequestUploadURL")
	if m.RequestUploadURLFunc != nil {
		return m.RequestUploadURLFunc(ctx, filename, contentType)
	}
	return &domain.UploadCredential{
		UploadURL: "https://objects.example/" + filename + "?X-Amz-Signature=abc",
		Filename:  filename,
	}, nil
}

func (m *mockBackend) ConfirmIngestion(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.record("ConfirmIngestion")
	if m.ConfirmIngestionFunc != nil {
		return m.ConfirmIngestionFunc(ctx, req)
	}
	return &domain.IngestResult{Status: domain.IngestIndexed, FileID: req.FileID}, nil
}

func (m *mockBackend) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	m.record("AdminStats")
	if m.AdminStatsFunc != nil {
		return m.AdminStatsFunc(ctx)
	}
	return &domain.AdminStats{}, nil
}

func (m *mockBackend) ListUsers(ctx context.Context) ([]domain.UserEntry, error) {
	m.record("ListUsers")
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) AuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error) {
	m.record("AuditLogs")
	if m.AuditLogsFunc != nil {
		return m.AuditLogsFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) ExportAuditLogs(ctx context.Context) (*domain.AuditExport, error) {
	m.record("ExportAuditLogs")
	if m.ExportAuditLogsFunc != nil {
		return m.ExportAuditLogsFunc(ctx)
	}
	return &domain.AuditExport{Data: []byte("event_id\n")}, nil
}

// mockBackendFactory hands out one backend and records the tokens it saw.
type mockBackendFactory struct {
	backend *mockBackend
	mu      sync.Mutex
	tokens  []string
}

func (f *mockBackendFactory) ForToken(token string) driven.Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return f.backend
}

// staticIdentity implements driven.IdentityProvider.
type staticIdentity struct {
	token string
	err   error
}

func (s *staticIdentity) Token(_ context.Context) (string, error) {
	return s.token, s.err
}

// mockObjectStore records PUTs.
type mockObjectStore struct {
	PutFunc func(ctx context.Context, url, contentType string, body io.Reader, size int64) error

	mu          sync.Mutex
	url         string
	contentType string
	body        []byte
}

func (m *mockObjectStore) Put(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.url, m.contentType, m.body = url, contentType, data
	m.mu.Unlock()
	if m.PutFunc != nil {
		return m.PutFunc(ctx, url, contentType, bytes.NewReader(data), size)
	}
	return nil
}

// mockLocalFiles serves in-memory file contents by path.
type mockLocalFiles struct {
	files map[string]string
}

func (m *mockLocalFiles) Stat(path string) (*domain.LocalFile, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.LocalFile{
		Path:        path,
		Name:        path,
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	}, nil
}

func (m *mockLocalFiles) Open(path string) (io.ReadCloser, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewBufferString(content)), nil
}

// mapCache implements driven.URLCache without expiry.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Add(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = url
}

func (c *mapCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *mapCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

var (
	contributorCaps = domain.Capabilities{Contributor: true}
	adminCaps       = domain.Capabilities{Contributor: true, Admin: true}
	viewerCaps      = domain.Capabilities{}
)

func testFiles() []domain.FileRecord {
	return []domain.FileRecord{
		{FileID: "f1", Filename: "report.pdf", Size: 1024, Tags: []string{"finance"}},
		{FileID: "f2", Filename: "photo.png", Size: 2048},
		{FileID: "f3", Filename: "notes.txt", Size: 12, Tags: []string{"draft"}},
	}
}
