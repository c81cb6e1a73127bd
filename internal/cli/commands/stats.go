package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus distribution statistics",
		Long: `Show query counts by split, category, and difficulty tier.

Output adapts to environment; use --output json for machine-readable
counts.`,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}
	stats := crp.Counts()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(stats)
	}

	r.Header("Corpus Statistics")
	r.Printf("Queries: %d (%d with invalid paths)\n", stats.Total, stats.Invalid)
	r.Printf("Statements: %d\n", stats.Statements)
	r.Println("")

	renderCountTable(r, "Split", stats.BySplit)
	renderCountTable(r, "Category", stats.ByCategory)
	renderCountTable(r, "Difficulty", stats.ByTier)
	return nil
}

func renderCountTable(r *output.Renderer, dimension string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, "By "+dimension))
		r.Println("")
		r.Printf("| %s | Queries |\n", dimension)
		r.Println("|---|--------:|")
		for _, k := range keys {
			r.Printf("| %s | %d |\n", k, counts[k])
		}
		r.Println("")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{dimension, "Queries"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, counts[k]})
	}
	t.Render()
	fmt.Fprintln(r.Writer())
}
