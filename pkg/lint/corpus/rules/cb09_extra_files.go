package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(ExtraFiles)
}

// ExtraFiles flags unexpected siblings next to a query file.
var ExtraFiles = corpus.RuleDef{
	ID:          "CB09",
	Name:        "layout.extra-files",
	Group:       "layout",
	Description: "A leaf query directory holds exactly one sql_{id}.sql file.",
	Severity:    lint.SeverityWarning,
	Check:       checkExtraFiles,

	Rationale: `Stray files in a leaf directory (editor backups, second drafts)
conflict with the one-file-per-query contract and confuse harnesses that glob
the directory.`,

	Fix: "Delete the stray files, or fold alternative solutions into the sql file.",
}

func checkExtraFiles(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		for _, extra := range q.ExtraFiles {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "CB09",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("unexpected file %q next to the query file", extra),
				File:     q.FilePath,
				Stmt:     -1,
			})
		}
	}
	return diags
}
