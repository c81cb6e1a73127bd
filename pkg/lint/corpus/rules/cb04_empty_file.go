package rules

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(EmptyFile)
}

// EmptyFile flags query files that contain no statements.
var EmptyFile = corpus.RuleDef{
	ID:          "CB04",
	Name:        "layout.empty-file",
	Group:       "layout",
	Description: "Every query file must contain at least one statement.",
	Severity:    lint.SeverityError,
	Check:       checkEmptyFile,

	Rationale: `A file with only comments or whitespace occupies a corpus
coordinate without defining a benchmark question.`,

	Fix: "Add the query, or remove the directory.",
}

func checkEmptyFile(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		if q.StatementCount > 0 {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB04",
			Severity: lint.SeverityError,
			Message:  "file contains no SQL statements",
			File:     q.FilePath,
			Stmt:     -1,
		})
	}
	return diags
}
