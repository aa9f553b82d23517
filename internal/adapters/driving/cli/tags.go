package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:     "tags",
	Aliases: []string{"tag"},
	Short:   "Manage tags",
	Long: `List tag definitions, attach tags to documents, and (admins only)
create or delete tag definitions.`,
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tag definitions",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a tag definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsCreate,
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a tag definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsDelete,
}

var tagsToggleCmd = &cobra.Command{
	Use:   "toggle [filename] [tag]",
	Short: "Add a tag to a document, or remove it if present",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagsToggle,
}

var tagsSetCmd = &cobra.Command{
	Use:   "set [filename] [tag...]",
	Short: "Replace the tags of a document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagsSet,
}

// Flags.
var (
	tagsColor string
	tagsYes   bool
	tagsJSON  bool
)

func init() {
	tagsListCmd.Flags().BoolVar(&tagsJSON, "json", false, "output as JSON")
	tagsCreateCmd.Flags().StringVarP(&tagsColor, "color", "c", "", "tag colour as #rrggbb (default: first preset)")
	tagsDeleteCmd.Flags().BoolVarP(&tagsYes, "yes", "y", false, "skip confirmation")

	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsCreateCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)
	tagsCmd.AddCommand(tagsToggleCmd)
	tagsCmd.AddCommand(tagsSetCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runTagsList(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	if err := ws.Tags().Refresh(cmd.Context()); err != nil {
		return err
	}
	tags := ws.Tags().Tags()

	if tagsJSON {
		return printJSON(cmd, tags)
	}
	if len(tags) == 0 {
		cmd.Println("No tags defined.")
		return nil
	}
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{t.Name, t.Color, strconv.Itoa(t.Count)})
	}
	printTable(cmd.OutOrStdout(), []string{"NAME", "COLOR", "FILES"}, rows)
	return nil
}

func runTagsCreate(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	if err := ws.Tags().Create(cmd.Context(), args[0], tagsColor); err != nil {
		return err
	}
	tag := ws.Tags().Lookup(args[0])
	cmd.Printf("Created tag %s (%s).\n", tag.Name, tag.Color)
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	pending, err := ws.Tags().RequestDelete(args[0])
	if err != nil {
		return err
	}
	if !tagsYes && !confirm(cmd, pending.Prompt()) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := pending.Confirm(cmd.Context()); err != nil {
		return err
	}
	cmd.Printf("Deleted tag %s.\n", args[0])
	return nil
}

func runTagsToggle(cmd *cobra.Command, args []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	record, err := recordByFilename(ws, args[0])
	if err != nil {
		return err
	}
	tags, err := ws.Tags().Toggle(cmd.Context(), record.FileID, args[1])
	if err != nil {
		return err
	}
	printFileTags(cmd, record.Filename, tags)
	return nil
}

func runTagsSet(cmd *cobra.Command, args []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	record, err := recordByFilename(ws, args[0])
	if err != nil {
		return err
	}
	tags := args[1:]
	if err := ws.Tags().Assign(cmd.Context(), record.FileID, tags); err != nil {
		return err
	}
	printFileTags(cmd, record.Filename, tags)
	return nil
}

func printFileTags(cmd *cobra.Command, filename string, tags []string) {
	if len(tags) == 0 {
		cmd.Printf("%s has no tags.\n", filename)
		return
	}
	cmd.Printf("%s tags: %s\n", filename, joinTags(tags))
}
