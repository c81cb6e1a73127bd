package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(TableQualification)
}

// TableQualification requires backtick-quoted fully-qualified table names.
var TableQualification = sql.RuleDef{
	ID:          "QR03",
	Name:        "query.table-qualification",
	Group:       "query",
	Description: "Source tables must be backtick-quoted and fully qualified (project.dataset.table).",
	Severity:    lint.SeverityWarning,
	Check:       checkTableQualification,

	Rationale: `Corpus queries are self-contained and run against a fixed external
dataset. An unqualified table reference only resolves against a session default
dataset, which the corpus does not control.`,

	Fix: "Write the reference as `project.dataset.table`.",
}

func checkTableQualification(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, t := range stmt.ExternalTables() {
		if t.Quoted && t.Dots >= 2 {
			continue
		}
		msg := fmt.Sprintf("table %q is not backtick-quoted", t.Name)
		if t.Quoted {
			msg = fmt.Sprintf("table `%s` is not fully qualified as project.dataset.table", t.Name)
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "QR03",
			Severity: lint.SeverityWarning,
			Message:  msg,
			File:     q.FilePath,
			Pos:      t.Pos,
		})
	}
	return diags
}
