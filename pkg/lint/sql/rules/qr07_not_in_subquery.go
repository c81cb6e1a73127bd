package rules

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(NotInSubquery)
}

// NotInSubquery hints about NULL semantics of NOT IN against a subquery.
var NotInSubquery = sql.RuleDef{
	ID:          "QR07",
	Name:        "query.not-in-subquery",
	Group:       "query",
	Description: "NOT IN against a subquery returning NULLs matches no rows.",
	Severity:    lint.SeverityHint,
	Check:       checkNotInSubquery,

	Rationale: `If the subquery returns a single NULL, NOT IN evaluates to NULL for
every row and the cohort silently becomes empty. Clinical tables are full of
NULLable identifiers, so this failure mode is common.`,

	Fix: "Use NOT EXISTS, or filter NULLs inside the subquery.",
}

func checkNotInSubquery(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, pos := range stmt.NotInSubqueries {
		diags = append(diags, lint.Diagnostic{
			RuleID:   "QR07",
			Severity: lint.SeverityHint,
			Message:  "NOT IN against a subquery yields no rows when the subquery returns NULL",
			File:     q.FilePath,
			Pos:      pos,
		})
	}
	return diags
}
