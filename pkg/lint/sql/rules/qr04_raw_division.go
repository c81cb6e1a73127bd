package rules

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(RawDivision)
}

// RawDivision suggests SAFE_DIVIDE over the / operator.
var RawDivision = sql.RuleDef{
	ID:          "QR04",
	Name:        "query.raw-division",
	Group:       "query",
	Description: "Prefer SAFE_DIVIDE over the / operator.",
	Severity:    lint.SeverityInfo,
	Check:       checkRawDivision,

	Rationale: `Cohort denominators can legitimately be zero (an empty subgroup).
Raw division fails the whole query; SAFE_DIVIDE yields NULL, which keeps the
statistic well-defined over sparse strata.`,

	Fix: "Replace a / b with SAFE_DIVIDE(a, b).",
}

func checkRawDivision(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, pos := range stmt.Divisions {
		diags = append(diags, lint.Diagnostic{
			RuleID:   "QR04",
			Severity: lint.SeverityInfo,
			Message:  "raw division can fail on zero denominators; consider SAFE_DIVIDE",
			File:     q.FilePath,
			Pos:      pos,
		})
	}
	return diags
}
