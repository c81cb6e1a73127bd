package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Split      string
	Category   string
	Difficulty string
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List corpus queries",
		Long: `List discovered queries with their coordinates and statement counts.

Output adapts to environment:
  - Terminal: table output
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all queries
  clinbench list

  # List one slice of the corpus
  clinbench list --split test --category Lab_Results --difficulty hard

  # List queries as JSON
  clinbench list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Split, "split", "", "Filter by split (test, validation)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "", "Filter by difficulty tier")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}

	queries := crp.Filter(opts.Split, opts.Category, opts.Difficulty)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, queries)
	case output.ModeMarkdown:
		return listMarkdown(r, queries)
	default:
		return listTable(r, queries)
	}
}

type listEntry struct {
	Split      string `json:"split"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	ID         string `json:"id"`
	Path       string `json:"path"`
	Statements int    `json:"statements"`
}

func listJSON(r *output.Renderer, queries []*corpus.Query) error {
	entries := make([]listEntry, 0, len(queries))
	for _, q := range queries {
		entries = append(entries, listEntry{
			Split:      string(q.Split),
			Category:   q.Category,
			Difficulty: string(q.Difficulty),
			ID:         q.ID,
			Path:       q.FilePath,
			Statements: len(q.Statements),
		})
	}
	return r.JSON(entries)
}

func listTable(r *output.Renderer, queries []*corpus.Query) error {
	r.Header(fmt.Sprintf("Queries (%d total)", len(queries)))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Split", "Category", "Tier", "ID", "Stmts"})
	for _, q := range queries {
		t.AppendRow(table.Row{q.Split, q.Category, q.Difficulty, q.ID, len(q.Statements)})
	}
	t.Render()
	return nil
}

func listMarkdown(r *output.Renderer, queries []*corpus.Query) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Queries (%d total)", len(queries))))
	r.Println("")
	r.Println("| Split | Category | Tier | ID | Statements |")
	r.Println("|-------|----------|------|----|-----------:|")
	for _, q := range queries {
		r.Printf("| %s | %s | %s | %s | %d |\n",
			q.Split, q.Category, q.Difficulty, q.ID, len(q.Statements))
	}
	return nil
}
