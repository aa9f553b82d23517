package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"file"},
	Short:   "Browse and manage documents",
	Long:    `List, delete, preview and download documents, and work with their version history.`,
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `List documents in the knowledge base.

--query keeps files whose name contains the text (case-insensitive).
--tag keeps files carrying any of the given tags; repeat it for several.`,
	Args: cobra.NoArgs,
	RunE: runFilesList,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete [filename]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDelete,
}

var filesVersionsCmd = &cobra.Command{
	Use:   "versions [filename]",
	Short: "Show the version history of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesVersions,
}

var filesRestoreCmd = &cobra.Command{
	Use:   "restore [filename] [version-id]",
	Short: "Make an older version the latest",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilesRestore,
}

var filesPreviewCmd = &cobra.Command{
	Use:   "preview [filename]",
	Short: "Resolve a preview link for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesPreview,
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download [filename]",
	Short: "Resolve a download link for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDownload,
}

// Flags.
var (
	filesQuery    string
	filesTags     []string
	filesJSON     bool
	filesYes      bool
	filesOpen     bool
	filesDownOpen bool
)

func init() {
	filesListCmd.Flags().StringVarP(&filesQuery, "query", "q", "", "filter by filename substring")
	filesListCmd.Flags().StringSliceVarP(&filesTags, "tag", "t", nil, "filter by tag (repeatable)")
	filesListCmd.Flags().BoolVar(&filesJSON, "json", false, "output as JSON")
	filesDeleteCmd.Flags().BoolVarP(&filesYes, "yes", "y", false, "skip confirmation")
	filesPreviewCmd.Flags().BoolVar(&filesOpen, "open", false, "open the link in the default application")
	filesDownloadCmd.Flags().BoolVar(&filesDownOpen, "open", false, "open the link in the default application")

	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	filesCmd.AddCommand(filesVersionsCmd)
	filesCmd.AddCommand(filesRestoreCmd)
	filesCmd.AddCommand(filesPreviewCmd)
	filesCmd.AddCommand(filesDownloadCmd)
	rootCmd.AddCommand(filesCmd)
}

// loadCatalog opens the browse view. Tag definitions are optional here:
// a failure to load them is logged and the file list is still returned.
func loadCatalog(ctx context.Context) (driving.Workspace, error) {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.View().Switch(domain.TabBrowse); err != nil {
		return nil, err
	}
	if err := ws.Catalog().Refresh(ctx); err != nil {
		return nil, err
	}
	if err := ws.Tags().Refresh(ctx); err != nil {
		logger.Warn("Tags unavailable: %v", err)
	}
	return ws, nil
}

// recordByFilename finds a loaded catalog record.
func recordByFilename(ws driving.Workspace, filename string) (*domain.FileRecord, error) {
	record, ok := ws.Catalog().GetByFilename(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
	}
	return record, nil
}

func runFilesList(cmd *cobra.Command, _ []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	search := ws.Search()
	search.SetQuery(filesQuery)
	for _, tag := range filesTags {
		search.ToggleTagFilter(tag)
	}
	files := search.Visible()

	if filesJSON {
		return printJSON(cmd, files)
	}
	if len(files) == 0 {
		cmd.Println("No files found.")
		return nil
	}

	rows := make([][]string, 0, len(files))
	for i := range files {
		rows = append(rows, []string{
			files[i].Filename,
			formatSize(files[i].Size),
			orDash(strings.Join(files[i].Tags, ",")),
			orDash(files[i].Status),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"FILENAME", "SIZE", "TAGS", "STATUS"}, rows)
	cmd.Printf("\nTotal: %d files\n", len(files))
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	pending, err := ws.Catalog().RequestDelete(args[0])
	if err != nil {
		return err
	}
	if !filesYes && !confirm(cmd, pending.Prompt()) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := pending.Confirm(cmd.Context()); err != nil {
		return err
	}
	cmd.Printf("Deleted %s.\n", args[0])
	return nil
}

func runFilesVersions(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	versions, err := expandVersions(cmd.Context(), ws, args[0])
	if err != nil {
		return err
	}
	printVersions(cmd, args[0], versions)
	return nil
}

func runFilesRestore(cmd *cobra.Command, args []string) error {
	filename, versionID := args[0], args[1]
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := expandVersions(cmd.Context(), ws, filename); err != nil {
		return err
	}
	if err := ws.Catalog().RestoreVersion(cmd.Context(), filename, versionID); err != nil {
		return err
	}
	cmd.Printf("Restored %s to version %s.\n\n", filename, versionID)
	_, versions := ws.Catalog().Versions()
	printVersions(cmd, filename, versions)
	return nil
}

// expandVersions loads the version history of filename.
func expandVersions(ctx context.Context, ws driving.Workspace, filename string) ([]domain.VersionRecord, error) {
	expanded, err := ws.Catalog().ToggleVersions(ctx, filename)
	if err != nil {
		return nil, err
	}
	if !expanded {
		return nil, domain.ErrNoVersionsOpen
	}
	_, versions := ws.Catalog().Versions()
	return versions, nil
}

func printVersions(cmd *cobra.Command, filename string, versions []domain.VersionRecord) {
	if len(versions) == 0 {
		cmd.Printf("No versions found for %s.\n", filename)
		return
	}
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		latest := ""
		if v.IsLatest {
			latest = "latest"
		}
		rows = append(rows, []string{v.VersionID, formatTime(v.LastModified), formatSize(v.Size), latest})
	}
	printTable(cmd.OutOrStdout(), []string{"VERSION", "MODIFIED", "SIZE", ""}, rows)
}

func runFilesPreview(cmd *cobra.Command, args []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	record, err := recordByFilename(ws, args[0])
	if err != nil {
		return err
	}

	preview, err := ws.Preview().Open(cmd.Context(), *record)
	if err != nil {
		return err
	}
	cmd.Printf("%s (%s preview)\n%s\n", preview.File.Filename, preview.Kind, preview.URL)
	if filesOpen {
		return ws.Preview().OpenExternal(preview.URL)
	}
	return nil
}

func runFilesDownload(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	url, err := ws.Preview().DownloadURL(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(url)
	if filesDownOpen {
		return ws.Preview().OpenExternal(url)
	}
	return nil
}
