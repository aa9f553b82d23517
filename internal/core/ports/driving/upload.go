package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// UploadPipeline drives the three-step upload protocol.
type UploadPipeline interface {
	Select(file domain.LocalFile) error
	SelectPath(path string) error
	Clear() error
	Start(ctx context.Context) error
	Status() domain.UploadStatus
	ResetDelay() time.Duration
}

// PreviewResolver resolves view and download URLs.
type PreviewResolver interface {
	Open(ctx context.Context, file domain.FileRecord) (*domain.Preview, error)
	Selected() *domain.Preview
	Close()
	DownloadURL(ctx context.Context, filename string) (string, error)
	OpenExternal(url string) error
}

// AdminPanel loads the admin datasets.
type AdminPanel interface {
	Load(ctx context.Context) error
	Overview() domain.AdminOverview
	Export(ctx context.Context) (*domain.AuditExport, error)
}

// SettingsService reads and writes client settings.
type SettingsService interface {
	Get() domain.ClientSettings
	Set(key, value string) error
	Values() map[string]string
}
