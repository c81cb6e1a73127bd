package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/parser"
)

var testQuery = lint.QueryInfo{
	Split:      "test",
	Category:   "chest_imaging",
	Difficulty: "easy",
	ID:         "001",
	FilePath:   "splits/test/chest_imaging/easy_level_queries/001/sql_001.sql",
	PathValid:  true,
}

func parseStmt(t *testing.T, sql string) *parser.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return stmt
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestTermination(t *testing.T) {
	stmt := parseStmt(t, "SELECT subject_id FROM `p.d.admissions`")
	diags := checkTermination(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "QR01", diags[0].RuleID)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
	assert.Equal(t, testQuery.FilePath, diags[0].File)

	stmt = parseStmt(t, "SELECT subject_id FROM `p.d.admissions`;")
	assert.Empty(t, checkTermination(stmt, testQuery, nil))
}

func TestSelectStar(t *testing.T) {
	stmt := parseStmt(t, "SELECT * FROM `p.d.admissions`;")
	diags := checkSelectStar(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "QR02", diags[0].RuleID)

	stmt = parseStmt(t, "SELECT a.* FROM `p.d.admissions` a;")
	diags = checkSelectStar(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "a.*")

	// Stars inside subqueries are not the outermost select list.
	stmt = parseStmt(t, "SELECT n FROM (SELECT COUNT(*) AS n FROM `p.d.admissions`) x;")
	assert.Empty(t, checkSelectStar(stmt, testQuery, nil))
}

func TestTableQualification(t *testing.T) {
	stmt := parseStmt(t, "SELECT a FROM admissions;")
	diags := checkTableQualification(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "not backtick-quoted")

	stmt = parseStmt(t, "SELECT a FROM `admissions`;")
	diags = checkTableQualification(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "not fully qualified")

	stmt = parseStmt(t, "SELECT a FROM `physionet-data.mimiciv_hosp.admissions`;")
	assert.Empty(t, checkTableQualification(stmt, testQuery, nil))

	// CTE references are not external tables.
	stmt = parseStmt(t, "WITH c AS (SELECT a FROM `p.d.t`) SELECT a FROM c;")
	assert.Empty(t, checkTableQualification(stmt, testQuery, nil))
}

func TestRawDivision(t *testing.T) {
	stmt := parseStmt(t, "SELECT deaths / total AS rate FROM `p.d.outcomes`;")
	diags := checkRawDivision(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "QR04", diags[0].RuleID)

	stmt = parseStmt(t, "SELECT SAFE_DIVIDE(deaths, total) AS rate FROM `p.d.outcomes`;")
	assert.Empty(t, checkRawDivision(stmt, testQuery, nil))
}

func TestNondeterministic(t *testing.T) {
	stmt := parseStmt(t, "SELECT subject_id FROM `p.d.t` WHERE intime > CURRENT_DATE();")
	diags := checkNondeterministic(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "current_date")

	stmt = parseStmt(t, "SELECT RAND() AS r FROM `p.d.t`;")
	assert.Equal(t, []string{"QR05"}, ruleIDs(checkNondeterministic(stmt, testQuery, nil)))

	stmt = parseStmt(t, "SELECT DATE_DIFF(outtime, intime, DAY) FROM `p.d.t`;")
	assert.Empty(t, checkNondeterministic(stmt, testQuery, nil))
}

func TestJoinCondition(t *testing.T) {
	stmt := parseStmt(t, "SELECT a.x FROM `p.d.a` a JOIN `p.d.b` b;")
	diags := checkJoinCondition(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "no ON or USING")

	stmt = parseStmt(t, "SELECT a.x FROM `p.d.a` a, `p.d.b` b;")
	diags = checkJoinCondition(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Cartesian")

	stmt = parseStmt(t, "SELECT a.x FROM `p.d.a` a JOIN `p.d.b` b ON a.x = b.x;")
	assert.Empty(t, checkJoinCondition(stmt, testQuery, nil))

	stmt = parseStmt(t, "SELECT a.x FROM `p.d.a` a CROSS JOIN `p.d.b` b;")
	assert.Empty(t, checkJoinCondition(stmt, testQuery, nil))

	stmt = parseStmt(t, "SELECT code FROM `p.d.t` t, UNNEST(t.codes) AS code;")
	assert.Empty(t, checkJoinCondition(stmt, testQuery, nil))
}

func TestNotInSubquery(t *testing.T) {
	stmt := parseStmt(t, "SELECT s FROM `p.d.a` WHERE s NOT IN (SELECT s FROM `p.d.b`);")
	diags := checkNotInSubquery(stmt, testQuery, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "QR07", diags[0].RuleID)
	assert.Equal(t, lint.SeverityHint, diags[0].Severity)

	stmt = parseStmt(t, "SELECT s FROM `p.d.a` WHERE ward NOT IN ('ER', 'ICU');")
	assert.Empty(t, checkNotInSubquery(stmt, testQuery, nil))
}

func TestRulesAreRegistered(t *testing.T) {
	for _, id := range []string{"QR01", "QR02", "QR03", "QR04", "QR05", "QR06", "QR07"} {
		rule, ok := lint.GetRuleByID(id)
		require.True(t, ok, "rule %s not registered", id)
		_, isSQL := rule.(lint.SQLRule)
		assert.True(t, isSQL, "rule %s should be an SQL rule", id)
	}
}
