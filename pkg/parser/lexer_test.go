package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexTypes(toks []Token) []TokenType {
	types := make([]TokenType, 0, len(toks))
	for _, t := range toks {
		types = append(types, t.Type)
	}
	return types
}

func TestLexSimpleSelect(t *testing.T) {
	toks := Lex("SELECT subject_id, hadm_id FROM admissions;")

	assert.Equal(t, []TokenType{
		KEYWORD, IDENT, COMMA, IDENT, KEYWORD, IDENT, SEMI, EOF,
	}, lexTypes(toks))

	// Keywords are lowercased, identifiers keep their case.
	assert.Equal(t, "select", toks[0].Literal)
	assert.Equal(t, "subject_id", toks[1].Literal)
	assert.Equal(t, "from", toks[4].Literal)
}

func TestLexBacktickIdent(t *testing.T) {
	toks := Lex("FROM `physionet-data.mimiciv_hosp.admissions` a")

	require.Equal(t, QIDENT, toks[1].Type)
	assert.Equal(t, "physionet-data.mimiciv_hosp.admissions", toks[1].Literal)
	assert.Equal(t, IDENT, toks[2].Type)
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single quoted", "'sepsis'", "sepsis"},
		{"double quoted", `"F"`, "F"},
		{"doubled quote escape", "'O''Brien'", "O'Brien"},
		{"backslash escape", `'it\'s'`, "it's"},
		{"raw string prefix", "r'abc'", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Lex(tt.input)
			require.Equal(t, STRING, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}
}

func TestLexOperators(t *testing.T) {
	toks := Lex("a != b <> c <= d >= e || f / g")

	assert.Equal(t, []TokenType{
		IDENT, NE, IDENT, NE, IDENT, LE, IDENT, GE, IDENT,
		CONCAT, IDENT, SLASH, IDENT, EOF,
	}, lexTypes(toks))
	assert.Equal(t, "!=", toks[1].Literal)
	assert.Equal(t, "<>", toks[3].Literal)
}

func TestLexCommentsSkipped(t *testing.T) {
	input := "-- cohort query\nSELECT # inline\n1 /* block\ncomment */ ;"
	toks := Lex(input)

	assert.Equal(t, []TokenType{KEYWORD, NUMBER, SEMI, EOF}, lexTypes(toks))
}

func TestLexNumbers(t *testing.T) {
	toks := Lex("100 45.67 1e10 4.5E-3")

	for i := 0; i < 4; i++ {
		assert.Equal(t, NUMBER, toks[i].Type)
	}
	assert.Equal(t, "4.5E-3", toks[3].Literal)
}

func TestLexParam(t *testing.T) {
	toks := Lex("WHERE intime > @cutoff_date")

	require.Equal(t, PARAM, toks[3].Type)
	assert.Equal(t, "cutoff_date", toks[3].Literal)
}

func TestLexPositions(t *testing.T) {
	toks := Lex("SELECT\n  hadm_id;")

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 3, toks[1].Pos.Column)
	assert.Equal(t, 2, toks[2].Pos.Line)
}

func TestLexIllegal(t *testing.T) {
	toks := Lex("a ! b")

	assert.Equal(t, ILLEGAL, toks[1].Type)
}
