// Command kbhub is a terminal client for a role-gated document knowledge base.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/auth/jwtclaims"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/backend/rest"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/localfs"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/objectstore"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbhub-cli/internal/core/services"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the driven adapters into the core services.
func build(opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, ".kbhub")
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	profile := opts.Profile
	if profile == "" {
		profile = settings.Profile
	}
	token := opts.Token
	if token == "" {
		token = os.Getenv(services.EnvToken)
	}
	authService := services.NewAuthService(store.SessionStore(), jwtclaims.New(), profile).WithOverride(token)

	backends := rest.NewFactory(rest.Config{
		BaseURL:           settings.BackendURL,
		Timeout:           settings.RequestTimeout,
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.RequestBurst,
	})
	logger.Debug("Backend: %s", settings.BackendURL)

	gate := services.NewSessionGate(authService, backends, services.WorkspaceOptions{
		ObjectStore:      objectstore.New(nil),
		LocalFiles:       localfs.New(),
		URLCache:         lru.New(settings.PreviewCacheSize, settings.PreviewCacheTTL),
		UploadResetDelay: settings.UploadResetDelay,
	})

	return &cli.Services{
		Settings: settingsService,
		Auth:     authService,
		Gate:     gate,
		LogFile:  filepath.Join(dir, "kbhub.log"),
		Close: func() error {
			gate.Wait()
			return store.Close()
		},
	}, nil
}
