package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(SelectStar)
}

// SelectStar flags * in the outermost select list.
var SelectStar = sql.RuleDef{
	ID:          "QR02",
	Name:        "query.select-star",
	Group:       "query",
	Description: "Avoid SELECT * in the outermost select list.",
	Severity:    lint.SeverityWarning,
	Check:       checkSelectStar,

	Rationale: `A benchmark query's result set is its contract. SELECT * ties the golden
answer to the full column list of the source table, so any upstream schema
change silently changes the expected result.`,

	Fix: "Select the cohort statistic columns explicitly.",
}

func checkSelectStar(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, col := range stmt.Columns {
		switch {
		case col.Star:
			diags = append(diags, lint.Diagnostic{
				RuleID:   "QR02",
				Severity: lint.SeverityWarning,
				Message:  "SELECT * makes the expected result schema-dependent",
				File:     q.FilePath,
				Pos:      col.Pos,
			})
		case col.TableStar != "":
			diags = append(diags, lint.Diagnostic{
				RuleID:   "QR02",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("SELECT %s.* makes the expected result schema-dependent", col.TableStar),
				File:     q.FilePath,
				Pos:      col.Pos,
			})
		}
	}
	return diags
}
