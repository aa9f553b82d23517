package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change client settings",
	Long: `Settings are stored in ~/.kbhub/config.toml.

Keys:
  backend.url                   backend API root (KBHUB_BACKEND_URL overrides)
  backend.timeout_seconds       per-request timeout
  backend.requests_per_second   outbound request rate
  backend.burst                 outbound request burst
  upload.reset_delay_ms         how long a finished upload is shown
  preview.cache_ttl_seconds     how long preview links are reused
  preview.cache_size            how many preview links are kept
  profile                       credential profile`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Settings == nil {
		return errors.New("settings service not configured")
	}

	values := svc.Settings.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, values[k]})
	}
	printTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, rows)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Settings == nil {
		return errors.New("settings service not configured")
	}
	if err := svc.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", args[0], svc.Settings.Values()[args[0]])
	return nil
}
