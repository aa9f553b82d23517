package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [path...]",
	Short: "Upload documents to the knowledge base",
	Long: `Uploads each file in three steps: request a short-lived upload link,
send the file straight to object storage, then ask the backend to index it.

Files are uploaded one after another. The first failure stops the run.
A file that is stored but cannot be parsed is reported as a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ws, err := enter(cmd.Context(), domain.TabUpload)
	if err != nil {
		return err
	}
	pipeline := ws.Upload()

	for _, path := range args {
		if err := pipeline.SelectPath(path); err != nil {
			return err
		}
		file := pipeline.Status().File
		cmd.Printf("Uploading %s (%s, %s)... ", file.Name, formatSize(file.Size), orDash(file.ContentType))

		if err := pipeline.Start(cmd.Context()); err != nil {
			cmd.Println("failed")
			var perr *domain.PipelineError
			if errors.As(err, &perr) {
				return fmt.Errorf("%s: %w", file.Name, perr)
			}
			return err
		}

		status := pipeline.Status()
		if status.Ingest != nil && !status.Ingest.Indexed() {
			cmd.Println("stored, not indexed")
			if status.Ingest.Error != "" {
				cmd.PrintErrf("warning: %s: %s\n", file.Name, status.Ingest.Error)
			}
			continue
		}
		cmd.Println("done")
	}
	return nil
}
