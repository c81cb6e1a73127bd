// Package rules contains the corpus-level lint rules. Importing the package
// registers every rule with the lint registry.
package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(PathConvention)
}

// PathConvention enforces the corpus directory layout.
var PathConvention = corpus.RuleDef{
	ID:          "CB01",
	Name:        "layout.path-convention",
	Group:       "layout",
	Description: "Files must follow splits/{split}/{category}/{tier}_level_queries/{id}/sql_{id}.sql.",
	Severity:    lint.SeverityError,
	Check:       checkPathConvention,

	Rationale: `The path encodes the query's split, category, difficulty, and id.
Tooling and downstream harnesses address queries by this convention, so a file
outside it is unreachable.`,

	Fix: "Move the file into the canonical directory shape.",
}

func checkPathConvention(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		if q.PathValid {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB01",
			Severity: lint.SeverityError,
			Message:  fmt.Sprintf("path does not follow the corpus convention: %s", q.PathProblem),
			File:     q.FilePath,
			Stmt:     -1,
		})
	}
	return diags
}
