package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for kbhub.

The tabs you see depend on your roles: contributors start on Upload,
everyone can Browse, and admins also get the Admin dashboard.

Controls:
  tab/shift+tab - Switch tabs
  ↑/k, ↓/j      - Navigate
  /             - Search
  m             - Toggle filter / semantic search
  Enter         - Select / Preview
  Esc           - Back / Cancel
  ?             - Toggle help
  q             - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}

	if svc.LogFile != "" {
		closer := logger.SetFile(svc.LogFile)
		defer func() {
			logger.SetOutput(os.Stderr)
			_ = closer.Close()
		}()
	}

	app, err := tui.NewApp(tui.NewPorts(svc.Gate))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}
	app.WithContext(cmd.Context()).WithExportDir(exportDir)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return app.Err()
}
