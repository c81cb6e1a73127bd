package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
)

// SearchOptions holds options for the search command.
type SearchOptions struct {
	Limit int
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	opts := &SearchOptions{}
	cmd := &cobra.Command{
		Use:   "search <substring>",
		Short: "Search indexed statements",
		Long: `Search the statements of the most recent index run for a substring,
case-insensitively. Run "clinbench index" first.`,
		Example: `  # Find queries touching the admissions table
  clinbench search admissions

  # First 10 hits only
  clinbench search SAFE_DIVIDE --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of hits (0 = unlimited)")
	return cmd
}

func runSearch(cmd *cobra.Command, substr string, opts *SearchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := store.GetLatestRun(cmdCtx.Cfg.CorpusRoot)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("corpus %s has not been indexed; run \"clinbench index\" first", cmdCtx.Cfg.CorpusRoot)
	}

	hits, err := store.SearchStatements(run.ID, substr, opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		type hitOut struct {
			Path      string `json:"path"`
			Statement int    `json:"statement"`
			Line      int    `json:"line"`
		}
		out := make([]hitOut, 0, len(hits))
		for _, h := range hits {
			out = append(out, hitOut{h.FilePath, h.Idx, h.Line})
		}
		return r.JSON(out)
	}

	if len(hits) == 0 {
		r.Muted("no statements match %q", substr)
		return nil
	}

	for _, h := range hits {
		r.Println(r.Styles().QueryPath.Render(fmt.Sprintf("%s:%d (statement %d)", h.FilePath, h.Line, h.Idx)))
		r.Println(indentSnippet(h.SQL, substr))
	}
	r.Printf("%d statements match\n", len(hits))
	return nil
}

// indentSnippet returns the first matching line of the statement, indented.
func indentSnippet(sql, substr string) string {
	lower := strings.ToLower(sql)
	needle := strings.ToLower(substr)
	off := strings.Index(lower, needle)
	if off < 0 {
		return ""
	}
	start := strings.LastIndexByte(sql[:off], '\n') + 1
	end := strings.IndexByte(sql[off:], '\n')
	if end < 0 {
		end = len(sql)
	} else {
		end += off
	}
	return "  " + strings.TrimSpace(sql[start:end])
}
