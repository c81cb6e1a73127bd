// Package rules contains the statement-level lint rules. Importing the
// package registers every rule with the lint registry.
package rules

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/sql"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

func init() {
	sql.Register(Termination)
}

// Termination requires every statement to end with a semicolon.
var Termination = sql.RuleDef{
	ID:          "QR01",
	Name:        "query.termination",
	Group:       "query",
	Description: "Every statement must be semicolon-terminated.",
	Severity:    lint.SeverityError,
	Check:       checkTermination,

	Rationale: `The corpus file format is one or more semicolon-terminated statements.
An unterminated trailing statement is ambiguous when alternative solutions are
appended to the same file.`,

	Fix: "Add a terminating semicolon to the statement.",
}

func checkTermination(stmt *parser.Statement, q lint.QueryInfo, _ map[string]any) []lint.Diagnostic {
	if stmt.Terminated {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "QR01",
		Severity: lint.SeverityError,
		Message:  "statement is not terminated with a semicolon",
		File:     q.FilePath,
		Pos:      stmt.Pos,
	}}
}
