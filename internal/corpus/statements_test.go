package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbench-io/clinbench/pkg/parser"
)

func TestSplitStatementsSingle(t *testing.T) {
	stmts := SplitStatements("SELECT 1;\n")
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1;", stmts[0].SQL)
	assert.Equal(t, 0, stmts[0].Index)
	assert.Equal(t, 1, stmts[0].Line)
}

func TestSplitStatementsSemicolons(t *testing.T) {
	raw := "SELECT a FROM t;\nSELECT b FROM t;\n"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT a FROM t;", stmts[0].SQL)
	assert.Equal(t, "SELECT b FROM t;", stmts[1].SQL)
	assert.Equal(t, 2, stmts[1].Line)
}

func TestSplitStatementsSeparatorLine(t *testing.T) {
	raw := "SELECT a FROM t\n-- =========\nSELECT b FROM t\n"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT a FROM t", stmts[0].SQL)
	assert.Equal(t, "SELECT b FROM t", stmts[1].SQL)
	assert.Equal(t, 3, stmts[1].Line)
}

func TestSplitStatementsQuotedSemicolon(t *testing.T) {
	raw := `SELECT ';' AS c, "x;y" AS d FROM t;`
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 1)
	assert.Equal(t, raw, stmts[0].SQL)
}

func TestSplitStatementsBacktickSemicolon(t *testing.T) {
	raw := "SELECT * FROM `physionet;data.mimiciv.patients`;"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 1)
}

func TestSplitStatementsCommentSemicolon(t *testing.T) {
	raw := "SELECT a -- trailing; note\nFROM t; /* block; comment */ SELECT b FROM t;"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1].SQL, "SELECT b")
}

func TestSplitStatementsCommentOnlyFile(t *testing.T) {
	raw := "-- just commentary\n/* and a block */\n\n"
	assert.Empty(t, SplitStatements(raw))
}

func TestSplitStatementsSkipsEmptyChunks(t *testing.T) {
	raw := "SELECT 1;\n-- ====\n-- nothing after the rule but comments\n"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 1)
}

func TestSplitStatementsStripsBOM(t *testing.T) {
	raw := "\uFEFFSELECT subject_id FROM `physionet-data.mimiciv.admissions`;"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT subject_id FROM `physionet-data.mimiciv.admissions`;", stmts[0].SQL)

	_, err := parser.Parse(stmts[0].SQL)
	assert.NoError(t, err)
}

func TestSplitStatementsLeadingComments(t *testing.T) {
	raw := "-- question 3\n\nSELECT subject_id FROM patients;"
	stmts := SplitStatements(raw)
	require.Len(t, stmts, 1)
	assert.Equal(t, 1, stmts[0].Line)
}
