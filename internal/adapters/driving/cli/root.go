// Package cli implements the kbhub command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	configDir  string
	profile    string
	tokenFlag  string
	verboseLog bool
)

var rootCmd = &cobra.Command{
	Use:   "kbhub",
	Short: "Knowledge base client",
	Long: `kbhub is a terminal client for a role-gated document knowledge base.

Contributors can upload, tag, version and delete documents. Admins can also
manage tag definitions and read the admin dashboard. Everyone can browse,
preview and run semantic search.

Get started:
  kbhub config set backend.url https://kb.example.com
  kbhub auth login
  kbhub tui`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseLog)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.kbhub)")
	flags.StringVar(&profile, "profile", "", "credential profile to use")
	flags.StringVar(&tokenFlag, "token", "", "bearer token for this invocation (overrides the stored one)")
	flags.BoolVarP(&verboseLog, "verbose", "v", false, "print debug logs to stderr")
}

// Options are the global flags handed to the Builder.
type Options struct {
	ConfigDir string
	Profile   string
	Token     string
}

// Services are the core services the commands drive.
type Services struct {
	Settings driving.SettingsService
	Auth     driving.AuthService
	Gate     driving.SessionGate

	// LogFile is where the TUI writes logs while it owns the screen. Optional.
	LogFile string

	// Close releases what the services hold. Optional.
	Close func() error
}

// Builder wires services once the global flags are parsed.
type Builder func(opts Options) (*Services, error)

var (
	builder Builder
	loaded  *Services
)

// SetBuilder registers the function that wires services.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds the services on first use.
func loadServices() (*Services, error) {
	if loaded != nil {
		return loaded, nil
	}
	if builder == nil {
		return nil, errors.New("services not configured")
	}
	s, err := builder(Options{
		ConfigDir: configDir,
		Profile:   profile,
		Token:     tokenFlag,
	})
	if err != nil {
		return nil, err
	}
	loaded = s
	return s, nil
}

func closeServices() {
	if loaded == nil {
		return
	}
	if loaded.Close == nil {
		loaded = nil
		return
	}
	if err := loaded.Close(); err != nil {
		logger.Warn("Closing services: %v", err)
	}
	loaded = nil
}

// openWorkspace resolves the signed-in session.
func openWorkspace(ctx context.Context) (driving.Workspace, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	if svc.Gate == nil {
		return nil, errors.New("session gate not configured")
	}
	ws, err := svc.Gate.Open(ctx)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return nil, fmt.Errorf("%w: run 'kbhub auth login' first", err)
	case errors.Is(err, domain.ErrSessionExpired):
		return nil, fmt.Errorf("%w: run 'kbhub auth login' again", err)
	case err != nil:
		return nil, err
	}
	if ws.Session().Degraded {
		logger.Warn("Could not read your roles; continuing with read-only access")
	}
	return ws, nil
}

// enter opens the workspace and loads tab.
func enter(ctx context.Context, tab domain.Tab) (driving.Workspace, error) {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Enter(ctx, tab); err != nil {
		if errors.Is(err, domain.ErrTabUnavailable) {
			return nil, fmt.Errorf("%w: your account cannot open %s", domain.ErrForbidden, tab)
		}
		return nil, err
	}
	return ws, nil
}
