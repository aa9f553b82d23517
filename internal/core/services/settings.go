package services

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBackendURL      = "backend.url"
	keyBackendTimeout  = "backend.timeout_seconds"
	keyBackendRate     = "backend.requests_per_second"
	keyBackendBurst    = "backend.burst"
	keyUploadResetMS   = "upload.reset_delay_ms"
	keyPreviewCacheTTL = "preview.cache_ttl_seconds"
	keyPreviewCache    = "preview.cache_size"
	keyProfile         = "profile"
)

// Environment overrides.
const (
	// EnvBackendURL overrides the configured backend URL.
	EnvBackendURL = "KBHUB_BACKEND_URL"

	// EnvToken supplies a bearer token for one invocation without storing it.
	EnvToken = "KBHUB_TOKEN"
)

// settingKind is how a key's value is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindURL
	kindPositiveInt
	kindPositiveFloat
)

var settingKinds = map[string]settingKind{
	keyBackendURL:      kindURL,
	keyBackendTimeout:  kindPositiveInt,
	keyBackendRate:     kindPositiveFloat,
	keyBackendBurst:    kindPositiveInt,
	keyUploadResetMS:   kindPositiveInt,
	keyPreviewCacheTTL: kindPositiveInt,
	keyPreviewCache:    kindPositiveInt,
	keyProfile:         kindString,
}

// SettingsService maps the config store onto ClientSettings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get returns the effective settings: defaults, then the config file,
// then the environment.
func (s *SettingsService) Get() domain.ClientSettings {
	settings := domain.DefaultClientSettings()
	if s.configStore != nil {
		if v := s.configStore.GetString(keyBackendURL); v != "" {
			settings.BackendURL = v
		}
		if v := s.configStore.GetInt(keyBackendTimeout); v > 0 {
			settings.RequestTimeout = time.Duration(v) * time.Second
		}
		if v := s.configStore.GetFloat(keyBackendRate); v > 0 {
			settings.RequestsPerSecond = v
		}
		if v := s.configStore.GetInt(keyBackendBurst); v > 0 {
			settings.RequestBurst = v
		}
		if v := s.configStore.GetInt(keyUploadResetMS); v > 0 {
			settings.UploadResetDelay = time.Duration(v) * time.Millisecond
		}
		if v := s.configStore.GetInt(keyPreviewCacheTTL); v > 0 {
			settings.PreviewCacheTTL = time.Duration(v) * time.Second
		}
		if v := s.configStore.GetInt(keyPreviewCache); v > 0 {
			settings.PreviewCacheSize = v
		}
		if v := s.configStore.GetString(keyProfile); v != "" {
			settings.Profile = v
		}
	}
	if v := s.getenv(EnvBackendURL); v != "" {
		settings.BackendURL = v
	}
	settings.BackendURL = strings.TrimRight(settings.BackendURL, "/")
	return settings
}

// Set validates and stores one setting.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL", domain.ErrInvalidInput, key)
		}
		parsed = value
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = int64(n)
	case kindPositiveFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Values returns the effective settings keyed by config key.
func (s *SettingsService) Values() map[string]string {
	st := s.Get()
	return map[string]string{
		keyBackendURL:      st.BackendURL,
		keyBackendTimeout:  strconv.Itoa(int(st.RequestTimeout / time.Second)),
		keyBackendRate:     strconv.FormatFloat(st.RequestsPerSecond, 'f', -1, 64),
		keyBackendBurst:    strconv.Itoa(st.RequestBurst),
		keyUploadResetMS:   strconv.Itoa(int(st.UploadResetDelay / time.Millisecond)),
		keyPreviewCacheTTL: strconv.Itoa(int(st.PreviewCacheTTL / time.Second)),
		keyPreviewCache:    strconv.Itoa(st.PreviewCacheSize),
		keyProfile:         st.Profile,
	}
}
