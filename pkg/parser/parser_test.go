package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, sql string) *Statement {
	t.Helper()
	stmt, err := Parse(sql)
	require.NoError(t, err)
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustParse(t, "SELECT subject_id, hadm_id FROM `physionet-data.mimiciv_hosp.admissions` WHERE hadm_id = 100;")

	assert.True(t, stmt.Terminated)
	assert.Len(t, stmt.Columns, 2)
	require.Len(t, stmt.Tables, 1)
	assert.Equal(t, "physionet-data.mimiciv_hosp.admissions", stmt.Tables[0].Name)
	assert.True(t, stmt.Tables[0].Quoted)
	assert.Equal(t, 2, stmt.Tables[0].Dots)
	assert.True(t, stmt.Clauses.From)
	assert.True(t, stmt.Clauses.Where)
	assert.False(t, stmt.Clauses.GroupBy)
}

func TestParseUnterminated(t *testing.T) {
	stmt := mustParse(t, "SELECT subject_id FROM `p.d.admissions`")

	assert.False(t, stmt.Terminated)
}

func TestParseCTE(t *testing.T) {
	stmt := mustParse(t, `
WITH cohort AS (
  SELECT subject_id FROM `+"`physionet-data.mimiciv_icu.icustays`"+`
)
SELECT c.subject_id FROM cohort c;`)

	assert.Equal(t, []string{"cohort"}, stmt.CTEs)
	require.Len(t, stmt.Tables, 2)

	ext := stmt.ExternalTables()
	require.Len(t, ext, 1)
	assert.Equal(t, "physionet-data.mimiciv_icu.icustays", ext[0].Name)

	var cte *TableRef
	for i := range stmt.Tables {
		if stmt.Tables[i].CTE {
			cte = &stmt.Tables[i]
		}
	}
	require.NotNil(t, cte)
	assert.Equal(t, "cohort", cte.Name)
	assert.Equal(t, "c", cte.Alias)
}

func TestParseJoins(t *testing.T) {
	stmt := mustParse(t, "SELECT a.subject_id FROM `p.d.admissions` a "+
		"LEFT JOIN `p.d.patients` pt ON a.subject_id = pt.subject_id, "+
		"`p.d.diagnoses` dx CROSS JOIN `p.d.services`;")

	require.Len(t, stmt.Joins, 3)
	assert.Equal(t, "left", stmt.Joins[0].Type)
	assert.True(t, stmt.Joins[0].HasCondition)
	assert.Equal(t, "comma", stmt.Joins[1].Type)
	assert.False(t, stmt.Joins[1].HasCondition)
	assert.Equal(t, "cross", stmt.Joins[2].Type)
	assert.Len(t, stmt.Tables, 4)
}

func TestParseJoinUsing(t *testing.T) {
	stmt := mustParse(t, "SELECT hadm_id FROM `p.d.a` INNER JOIN `p.d.b` USING (hadm_id);")

	require.Len(t, stmt.Joins, 1)
	assert.Equal(t, "inner", stmt.Joins[0].Type)
	assert.True(t, stmt.Joins[0].HasCondition)
}

func TestParseUnnestCommaIsNotJoin(t *testing.T) {
	stmt := mustParse(t, "SELECT code FROM `p.d.t` t, UNNEST(t.codes) AS code;")

	assert.Empty(t, stmt.Joins)
	assert.True(t, stmt.CallsFunc("unnest"))
}

func TestParseSelectStar(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM `p.d.t`;")
	require.Len(t, stmt.Columns, 1)
	assert.True(t, stmt.Columns[0].Star)

	stmt = mustParse(t, "SELECT t.* FROM `p.d.t` t;")
	require.Len(t, stmt.Columns, 1)
	assert.Equal(t, "t", stmt.Columns[0].TableStar)

	stmt = mustParse(t, "SELECT * EXCEPT (row_id) FROM `p.d.t`;")
	require.Len(t, stmt.Columns, 1)
	assert.True(t, stmt.Columns[0].Star)
}

func TestParseDistinct(t *testing.T) {
	stmt := mustParse(t, "SELECT DISTINCT subject_id FROM `p.d.t`;")

	assert.True(t, stmt.Distinct)
}

func TestParseFunctionsAndDivision(t *testing.T) {
	stmt := mustParse(t, "SELECT SAFE_DIVIDE(deaths, total) AS rate, deaths / total AS raw_rate, COUNT(*) AS n "+
		"FROM `p.d.outcomes` GROUP BY 1;")

	assert.True(t, stmt.CallsFunc("safe_divide"))
	assert.True(t, stmt.CallsFunc("count"))
	assert.Len(t, stmt.Divisions, 1)
	assert.True(t, stmt.Clauses.GroupBy)
	require.Len(t, stmt.Columns, 3)
	assert.Equal(t, "rate", stmt.Columns[0].Alias)
}

func TestParseParenlessBuiltins(t *testing.T) {
	stmt := mustParse(t, "SELECT CURRENT_DATE AS today, CURRENT_TIMESTAMP() AS now;")

	assert.True(t, stmt.CallsFunc("current_date"))
	assert.True(t, stmt.CallsFunc("current_timestamp"))
}

func TestParseNotInSubquery(t *testing.T) {
	stmt := mustParse(t, "SELECT subject_id FROM `p.d.admissions` "+
		"WHERE subject_id NOT IN (SELECT subject_id FROM `p.d.excluded`);")

	assert.Len(t, stmt.NotInSubqueries, 1)
	assert.Len(t, stmt.Tables, 2)
}

func TestParseNotInLiteralList(t *testing.T) {
	stmt := mustParse(t, "SELECT subject_id FROM `p.d.t` WHERE ward NOT IN ('ER', 'ICU');")

	assert.Empty(t, stmt.NotInSubqueries)
}

func TestParseSetOpOrderLimit(t *testing.T) {
	stmt := mustParse(t, "SELECT hadm_id FROM `p.d.a` UNION ALL SELECT hadm_id FROM `p.d.b` "+
		"ORDER BY hadm_id DESC LIMIT 10 OFFSET 5;")

	assert.True(t, stmt.Clauses.SetOp)
	assert.True(t, stmt.Clauses.OrderBy)
	assert.True(t, stmt.Clauses.Limit)
	assert.Len(t, stmt.Tables, 2)
}

func TestParseWindowQualify(t *testing.T) {
	stmt := mustParse(t, "SELECT subject_id, ROW_NUMBER() OVER (PARTITION BY subject_id ORDER BY intime) AS rn "+
		"FROM `p.d.icustays` QUALIFY rn = 1;")

	assert.True(t, stmt.CallsFunc("row_number"))
	assert.True(t, stmt.Clauses.Qualify)
}

func TestParseCaseExpression(t *testing.T) {
	stmt := mustParse(t, "SELECT CASE WHEN anchor_age >= 65 THEN 'elderly' ELSE 'adult' END AS age_band "+
		"FROM `p.d.patients`;")

	require.Len(t, stmt.Columns, 1)
	assert.Equal(t, "age_band", stmt.Columns[0].Alias)
}

func TestParseArrayAccess(t *testing.T) {
	stmt := mustParse(t, "SELECT APPROX_QUANTILES(valuenum, 100)[OFFSET(50)] AS median FROM `p.d.labevents`;")

	assert.True(t, stmt.CallsFunc("approx_quantiles"))
	assert.True(t, stmt.CallsFunc("offset"))
}

func TestParseLeftAsStringFunction(t *testing.T) {
	stmt := mustParse(t, "SELECT LEFT(icd_code, 3) AS chapter FROM `p.d.diagnoses_icd`;")

	assert.True(t, stmt.CallsFunc("left"))
	assert.Empty(t, stmt.Joins)
}

func TestParseSubqueryTables(t *testing.T) {
	stmt := mustParse(t, "SELECT n FROM (SELECT COUNT(*) AS n FROM `p.d.admissions`) sub;")

	ext := stmt.ExternalTables()
	require.Len(t, ext, 1)
	assert.Equal(t, "p.d.admissions", ext[0].Name)
	// Only the outermost select list is recorded.
	require.Len(t, stmt.Columns, 1)
	assert.False(t, stmt.Columns[0].Star)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"empty statement", ""},
		{"comment only", "-- nothing here\n"},
		{"missing select list", "SELECT"},
		{"missing table", "SELECT a FROM"},
		{"unclosed paren", "SELECT a FROM ("},
		{"unclosed cte", "WITH c AS (SELECT 1"},
		{"end without case", "SELECT end FROM t;"},
		{"trailing tokens", "SELECT a FROM t 123"},
		{"double semicolon", "SELECT a FROM t;;"},
		{"not a query", "DELETE FROM t;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.sql)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Msg)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("SELECT a\nFROM")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Pos.Line)
}
