package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(JoinCondition)
}

// JoinCondition flags joins without an ON or USING clause.
var JoinCondition = sql.RuleDef{
	ID:          "QR06",
	Name:        "query.join-condition",
	Group:       "query",
	Description: "Joins must carry an explicit ON or USING condition.",
	Severity:    lint.SeverityWarning,
	Check:       checkJoinCondition,

	Rationale: `A join without a condition is a Cartesian product. Against
admission-level tables that multiplies row counts silently and skews every
downstream aggregate.`,

	Fix: "Add an ON or USING clause, or make the Cartesian product explicit with CROSS JOIN.",
}

func checkJoinCondition(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, j := range stmt.Joins {
		// CROSS JOIN is an explicit Cartesian product; UNNEST correlation
		// also arrives as a comma join and is exempted by the parser.
		if j.Type == "cross" || j.HasCondition {
			continue
		}
		msg := fmt.Sprintf("%s join has no ON or USING condition", j.Type)
		if j.Type == "comma" {
			msg = "comma join is an implicit Cartesian product"
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "QR06",
			Severity: lint.SeverityWarning,
			Message:  msg,
			File:     q.FilePath,
			Pos:      j.Pos,
		})
	}
	return diags
}
