package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search document contents",
	Long: `Runs a semantic query against the knowledge base and prints the matching
passages with their source document and relevance score.

To filter by filename or tag instead, use 'kbhub files list --query/--tag'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchHit is the JSON shape of one result.
type searchHit struct {
	Source  string             `json:"source"`
	Score   float64            `json:"score"`
	Content string             `json:"content"`
	File    *domain.FileRecord `json:"file,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ws, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	search := ws.Search()
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery(strings.Join(args, " "))
	if err := search.Commit(cmd.Context()); err != nil {
		return err
	}
	hits, _ := search.Results()

	if searchJSON {
		out := make([]searchHit, 0, len(hits))
		for _, h := range hits {
			out = append(out, searchHit{Source: h.Result.Source, Score: h.Result.Score, Content: h.Result.Content, File: h.File})
		}
		return printJSON(cmd, out)
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, h := range hits {
		cmd.Printf("  [%d] %s (%.0f%%)\n", i+1, h.Result.Source, h.Result.Score*100)
		if h.File == nil {
			cmd.Println("      (not in the file list)")
		} else if len(h.File.Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(h.File.Tags, ", "))
		}
		if snippet := snippet(h.Result.Content, 200); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
