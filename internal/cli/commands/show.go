package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <split> <category> <difficulty> <id> | show <path>",
		Short: "Print one query's SQL",
		Example: `  # Print a query by coordinate
  clinbench show test Lab_Results hard 012

  # Or by corpus-relative path
  clinbench show splits/test/Lab_Results/hard_level_queries/012/sql_012.sql

  # As JSON, including per-statement metadata
  clinbench show test Lab_Results hard 012 --output json`,
		Args: cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := refFromArgs(args)
			if err != nil {
				return err
			}
			return runShow(cmd, ref)
		},
	}
	return cmd
}

// refFromArgs accepts either a full coordinate or a single corpus-relative
// path argument.
func refFromArgs(args []string) (corpus.Ref, error) {
	switch len(args) {
	case 1:
		return corpus.ParsePath(args[0])
	case 4:
		return corpus.Ref{
			Split:      corpus.Split(args[0]),
			Category:   args[1],
			Difficulty: corpus.Difficulty(args[2]),
			ID:         args[3],
		}, nil
	default:
		return corpus.Ref{}, fmt.Errorf("expected a corpus path or <split> <category> <difficulty> <id>, got %d arguments", len(args))
	}
}

func runShow(cmd *cobra.Command, ref corpus.Ref) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}

	q, ok := crp.Get(ref)
	if !ok {
		return fmt.Errorf("query not found: %s", corpus.QueryPath(ref))
	}

	if r.EffectiveMode() == output.ModeJSON {
		type stmtOut struct {
			Index int    `json:"index"`
			Line  int    `json:"line"`
			SQL   string `json:"sql"`
		}
		out := struct {
			Path       string    `json:"path"`
			Statements []stmtOut `json:"statements"`
		}{Path: q.FilePath}
		for _, st := range q.Statements {
			out.Statements = append(out.Statements, stmtOut{st.Index, st.Line, st.SQL})
		}
		return r.JSON(out)
	}

	r.Muted("%s", q.FilePath)
	r.Println(strings.TrimRight(q.Raw, "\n"))
	return nil
}
