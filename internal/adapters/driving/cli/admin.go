package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration dashboard (admins only)",
	Long: `Show system stats, the user directory and the audit log, and export the
audit log as CSV. Datasets load independently: when one fails the others
are still shown and the failure is reported.`,
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show system stats",
	Args:  cobra.NoArgs,
	RunE:  runAdminStats,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with their online status",
	Args:  cobra.NoArgs,
	RunE:  runAdminUsers,
}

var adminAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log",
	Args:  cobra.NoArgs,
	RunE:  runAdminAudit,
}

var adminExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the audit log as CSV",
	Args:  cobra.NoArgs,
	RunE:  runAdminExport,
}

// Flags.
var (
	adminJSON  bool
	auditLimit int
	exportPath string
)

func init() {
	adminCmd.PersistentFlags().BoolVar(&adminJSON, "json", false, "output as JSON")
	adminAuditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 50, "maximum number of entries (0 = all)")
	adminExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file or directory (default: server-suggested name)")

	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminAuditCmd)
	adminCmd.AddCommand(adminExportCmd)
	rootCmd.AddCommand(adminCmd)
}

// loadAdmin opens the admin view. Partial failures are reported on stderr
// and the datasets that did load are returned.
func loadAdmin(cmd *cobra.Command) (domain.AdminOverview, error) {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return domain.AdminOverview{}, err
	}
	err = ws.Enter(cmd.Context(), domain.TabAdmin)
	var partial *domain.PartialAdminError
	switch {
	case errors.As(err, &partial):
		cmd.PrintErrf("warning: %s\n", partial.Banner())
	case errors.Is(err, domain.ErrTabUnavailable):
		return domain.AdminOverview{}, fmt.Errorf("%w: admin access requires the %s group", domain.ErrForbidden, domain.GroupAdmins)
	case err != nil:
		return domain.AdminOverview{}, err
	}
	return ws.Admin().Overview(), nil
}

func runAdminStats(cmd *cobra.Command, _ []string) error {
	overview, err := loadAdmin(cmd)
	if err != nil {
		return err
	}
	stats := overview.Stats
	if adminJSON {
		return printJSON(cmd, stats)
	}
	cmd.Printf("Total files:   %d\n", stats.TotalFiles)
	cmd.Printf("Storage used:  %s\n", orDash(stats.StorageUsed))
	cmd.Printf("System health: %s\n", orDash(stats.SystemHealth))
	cmd.Printf("Online users:  %d\n", stats.OnlineUsersCount)
	if len(stats.OnlineUsersList) > 0 {
		cmd.Printf("               %s\n", strings.Join(stats.OnlineUsersList, ", "))
	}
	return nil
}

func runAdminUsers(cmd *cobra.Command, _ []string) error {
	overview, err := loadAdmin(cmd)
	if err != nil {
		return err
	}
	if adminJSON {
		return printJSON(cmd, overview.Users)
	}
	if len(overview.Users) == 0 {
		cmd.Println("No users.")
		return nil
	}
	rows := make([][]string, 0, len(overview.Users))
	for _, u := range overview.Users {
		online := "offline"
		if u.Online {
			online = "online"
		}
		enabled := "enabled"
		if !u.Enabled {
			enabled = "disabled"
		}
		rows = append(rows, []string{
			u.Username,
			orDash(u.Email),
			orDash(strings.Join(u.Groups, ",")),
			orDash(u.Status),
			enabled,
			online,
			formatTime(u.CreatedAt),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"USERNAME", "EMAIL", "GROUPS", "STATUS", "ENABLED", "PRESENCE", "CREATED"}, rows)
	return nil
}

func runAdminAudit(cmd *cobra.Command, _ []string) error {
	overview, err := loadAdmin(cmd)
	if err != nil {
		return err
	}
	logs := overview.Logs
	if auditLimit > 0 && len(logs) > auditLimit {
		logs = logs[:auditLimit]
	}
	if adminJSON {
		return printJSON(cmd, logs)
	}
	if len(logs) == 0 {
		cmd.Println("No audit entries.")
		return nil
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			formatTime(l.Timestamp),
			orDash(l.User),
			l.Method,
			l.Path,
			strconv.Itoa(l.StatusCode),
			strconv.FormatFloat(l.DurationMS, 'f', 1, 64) + "ms",
		})
	}
	printTable(cmd.OutOrStdout(), []string{"TIME", "USER", "METHOD", "PATH", "STATUS", "DURATION"}, rows)
	return nil
}

func runAdminExport(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	export, err := ws.Admin().Export(cmd.Context())
	if err != nil {
		return err
	}
	path, err := writeExport(exportPath, export)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %s (%s)\n", path, formatSize(int64(len(export.Data))))
	return nil
}

// writeExport saves export to target. An empty target or an existing
// directory uses the export's own filename.
func writeExport(target string, export *domain.AuditExport) (string, error) {
	name := filepath.Base(export.Filename)
	path := target
	switch {
	case target == "":
		path = name
	default:
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			path = filepath.Join(target, name)
		}
	}
	if err := os.WriteFile(path, export.Data, 0600); err != nil {
		return "", fmt.Errorf("saving audit export: %w", err)
	}
	return path, nil
}
