package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(ParseFailure)
}

// ParseFailure surfaces statements that failed to parse.
var ParseFailure = corpus.RuleDef{
	ID:          "CB07",
	Name:        "query.parse-failure",
	Group:       "query",
	Description: "Every statement must parse as a query in the corpus dialect.",
	Severity:    lint.SeverityError,
	Check:       checkParseFailure,

	Rationale: `"Every file parses as syntactically valid SQL" is the corpus's
baseline structural property. A file that does not parse cannot be executed by
any downstream harness.`,

	Fix: "Fix the statement's syntax.",
}

func checkParseFailure(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		for _, issue := range q.ParseIssues {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "CB07",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("statement %d does not parse: %s", issue.Stmt+1, issue.Msg),
				File:     q.FilePath,
				Pos:      issue.Pos,
				Stmt:     issue.Stmt,
			})
		}
	}
	return diags
}
