// Package lint defines the rule framework for corpus linting: severities,
// diagnostics, rule interfaces, and the process-global rule registry.
// SQL-level rules check individual parsed statements; corpus-level rules
// check the corpus layout as a whole.
package lint

import (
	"github.com/clinbench-io/clinbench/pkg/parser"
)

// Diagnostic is a single lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	File     string          // corpus-relative file path
	Pos      parser.Position // zero when the finding is file- or corpus-level
	Stmt     int             // statement index within the file, -1 for file-level
}

// ParseIssue records a statement that failed to parse.
type ParseIssue struct {
	Stmt int
	Pos  parser.Position
	Msg  string
}

// QueryInfo is the corpus-level view of one benchmark query, mirrored here
// so rules do not depend on the discovery implementation.
type QueryInfo struct {
	Split          string
	Category       string
	Difficulty     string
	ID             string
	FilePath       string // corpus-relative
	PathValid      bool   // path followed the naming convention
	PathProblem    string // description when PathValid is false
	DirID          string // id segment of the leaf directory
	FileID         string // id segment of the sql_{id}.sql filename
	StatementCount int
	ExtraFiles     []string // unexpected siblings in the leaf directory
	ParseIssues    []ParseIssue
}

// CorpusContext provides corpus data to corpus-level rules.
type CorpusContext interface {
	// Queries returns all discovered queries, including invalid ones.
	Queries() []QueryInfo

	// KnownCategories returns the configured category set. Empty means
	// any category name is accepted.
	KnownCategories() []string

	// KnownDifficulties returns the accepted difficulty tiers.
	KnownDifficulties() []string
}

// Rule is the base interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g. "QR02" or "CB01".
	ID() string

	// Name returns the human-readable name, e.g. "query.select-star".
	Name() string

	// Group returns the category, e.g. "query", "layout".
	Group() string

	// Description returns a one-line description.
	Description() string

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() Severity

	// Rationale explains why the rule exists.
	Rationale() string

	// Fix explains how to resolve violations.
	Fix() string
}

// SQLRule analyzes a single parsed statement.
type SQLRule interface {
	Rule

	// CheckSQL analyzes one statement of one query file.
	CheckSQL(stmt *parser.Statement, q QueryInfo, opts map[string]any) []Diagnostic
}

// CorpusRule analyzes the corpus as a whole.
type CorpusRule interface {
	Rule

	// CheckCorpus analyzes the full corpus context.
	CheckCorpus(ctx CorpusContext, opts map[string]any) []Diagnostic
}

// RuleInfo is rule metadata for documentation and tooling.
type RuleInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Group           string `json:"group"`
	Type            string `json:"type"` // "sql" or "corpus"
	Description     string `json:"description"`
	DefaultSeverity string `json:"default_severity"`
	Rationale       string `json:"rationale,omitempty"`
	Fix             string `json:"fix,omitempty"`
}

// GetRuleInfo extracts metadata from a Rule.
func GetRuleInfo(r Rule) RuleInfo {
	info := RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity().String(),
		Rationale:       r.Rationale(),
		Fix:             r.Fix(),
	}
	switch r.(type) {
	case SQLRule:
		info.Type = "sql"
	case CorpusRule:
		info.Type = "corpus"
	}
	return info
}
