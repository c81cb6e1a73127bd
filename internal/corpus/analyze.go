package corpus

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

// ParsedQuery pairs a query's lint metadata with its parsed statements.
// Statements that failed to parse are nil and show up as ParseIssues on the
// metadata instead.
type ParsedQuery struct {
	Query      *Query
	Info       lint.QueryInfo
	Statements []*parser.Statement
}

// ParseAll parses every statement of every query in the corpus and prepares
// the metadata the lint rules consume. Parser positions are shifted to
// file-relative line numbers.
func ParseAll(c *Corpus) []ParsedQuery {
	out := make([]ParsedQuery, 0, len(c.Queries))
	for _, q := range c.Queries {
		pq := ParsedQuery{
			Query: q,
			Info: lint.QueryInfo{
				Split:          string(q.Split),
				Category:       q.Category,
				Difficulty:     string(q.Difficulty),
				ID:             q.ID,
				FilePath:       q.FilePath,
				PathValid:      q.Valid,
				PathProblem:    q.Problem,
				DirID:          q.DirID,
				FileID:         q.FileID,
				StatementCount: len(q.Statements),
				ExtraFiles:     q.ExtraFiles,
			},
			Statements: make([]*parser.Statement, len(q.Statements)),
		}
		for i, s := range q.Statements {
			stmt, err := parser.Parse(s.SQL)
			if err != nil {
				issue := lint.ParseIssue{Stmt: i, Msg: err.Error()}
				if perr, ok := err.(*parser.ParseError); ok {
					issue.Pos = fileRelative(perr.Pos, s.Line)
					issue.Msg = perr.Msg
				}
				pq.Info.ParseIssues = append(pq.Info.ParseIssues, issue)
				continue
			}
			shiftPositions(stmt, s.Line)
			pq.Statements[i] = stmt
		}
		out = append(out, pq)
	}
	return out
}

// lintContext adapts parsed queries to the interface corpus-level rules see.
type lintContext struct {
	infos        []lint.QueryInfo
	categories   []string
	difficulties []string
}

var _ lint.CorpusContext = (*lintContext)(nil)

// NewLintContext builds the corpus-level lint context. knownCategories may
// be empty, which disables category validation.
func NewLintContext(parsed []ParsedQuery, knownCategories []string) lint.CorpusContext {
	ctx := &lintContext{
		infos:      make([]lint.QueryInfo, 0, len(parsed)),
		categories: knownCategories,
	}
	for _, d := range Difficulties() {
		ctx.difficulties = append(ctx.difficulties, string(d))
	}
	for _, pq := range parsed {
		ctx.infos = append(ctx.infos, pq.Info)
	}
	return ctx
}

func (c *lintContext) Queries() []lint.QueryInfo   { return c.infos }
func (c *lintContext) KnownCategories() []string   { return c.categories }
func (c *lintContext) KnownDifficulties() []string { return c.difficulties }

func fileRelative(pos parser.Position, stmtLine int) parser.Position {
	pos.Line += stmtLine - 1
	return pos
}

// shiftPositions rebases all recorded positions from statement-relative to
// file-relative line numbers.
func shiftPositions(stmt *parser.Statement, stmtLine int) {
	stmt.Pos = fileRelative(stmt.Pos, stmtLine)
	for i := range stmt.Columns {
		stmt.Columns[i].Pos = fileRelative(stmt.Columns[i].Pos, stmtLine)
	}
	for i := range stmt.Tables {
		stmt.Tables[i].Pos = fileRelative(stmt.Tables[i].Pos, stmtLine)
	}
	for i := range stmt.Joins {
		stmt.Joins[i].Pos = fileRelative(stmt.Joins[i].Pos, stmtLine)
	}
	for i := range stmt.Functions {
		stmt.Functions[i].Pos = fileRelative(stmt.Functions[i].Pos, stmtLine)
	}
	for i := range stmt.Divisions {
		stmt.Divisions[i] = fileRelative(stmt.Divisions[i], stmtLine)
	}
	for i := range stmt.NotInSubqueries {
		stmt.NotInSubqueries[i] = fileRelative(stmt.NotInSubqueries[i], stmtLine)
	}
}
