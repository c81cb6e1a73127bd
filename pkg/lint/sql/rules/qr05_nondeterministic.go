package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(Nondeterministic)
}

// nondeterministicFuncs yield different results across runs, which breaks
// comparison against a fixed golden answer.
var nondeterministicFuncs = map[string]bool{
	"current_date":      true,
	"current_datetime":  true,
	"current_time":      true,
	"current_timestamp": true,
	"rand":              true,
	"generate_uuid":     true,
	"session_user":      true,
}

// Nondeterministic flags functions whose value changes between runs.
var Nondeterministic = sql.RuleDef{
	ID:          "QR05",
	Name:        "query.nondeterministic",
	Group:       "query",
	Description: "Queries must not depend on evaluation-time state.",
	Severity:    lint.SeverityWarning,
	Check:       checkNondeterministic,

	Rationale: `Benchmark answers are fixed at corpus-build time. A query that calls
CURRENT_DATE or RAND produces a different result every run, so no golden
answer can ever match it.`,

	Fix: "Anchor the query to a literal date or a column value instead.",
}

func checkNondeterministic(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, f := range stmt.Functions {
		if !nondeterministicFuncs[f.Name] {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "QR05",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("%s is nondeterministic; the result cannot match a fixed answer", f.Name),
			File:     q.FilePath,
			Pos:      f.Pos,
		})
	}
	return diags
}
