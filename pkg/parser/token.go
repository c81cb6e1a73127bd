package parser

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // admissions, hadm_id
	QIDENT // `physionet-data.mimiciv_hosp.admissions`
	NUMBER // 123, 45.67, 1e10
	STRING // 'sepsis', "F"
	PARAM  // @cutoff_date

	// Operators and punctuation
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	CONCAT   // ||
	EQ       // =
	NE       // != or <>
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	DOT      // .
	COMMA    // ,
	SEMI     // ;
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Keywords
	KEYWORD
)

// Position is a location in the source text, 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Keyword reports whether the token is the given keyword. Keyword literals
// are lowercased by the lexer, so kw must be lowercase.
func (t Token) Keyword(kw string) bool {
	return t.Type == KEYWORD && t.Literal == kw
}

// keywords holds the recognized SQL keywords, including the BigQuery
// extensions the corpus dialect uses (QUALIFY, UNNEST, STRUCT, ...).
var keywords = map[string]bool{
	"all": true, "and": true, "any": true, "as": true, "asc": true,
	"between": true, "by": true, "case": true, "cast": true, "cross": true,
	"cube": true, "desc": true, "distinct": true,
	"else": true, "end": true, "except": true, "exists": true,
	"extract": true, "false": true, "filter": true, "first": true,
	"following": true, "from": true, "full": true, "group": true,
	"grouping": true, "having": true, "ignore": true, "in": true,
	"inner": true, "intersect": true, "interval": true, "is": true,
	"join": true, "last": true, "lateral": true, "left": true,
	"like": true, "limit": true, "not": true, "null": true, "nulls": true,
	"offset": true, "on": true, "or": true, "order": true, "outer": true,
	"over": true, "partition": true, "preceding": true, "qualify": true,
	"range": true, "recursive": true, "respect": true, "right": true,
	"rollup": true, "row": true, "rows": true, "select": true,
	"struct": true, "tablesample": true, "then": true, "true": true,
	"unbounded": true, "union": true, "unnest": true, "using": true,
	"when": true, "where": true, "window": true, "with": true,
	"within": true,
}

// LookupIdent returns KEYWORD for recognized keywords, IDENT otherwise.
// The ident must already be lowercased.
func LookupIdent(ident string) TokenType {
	if keywords[ident] {
		return KEYWORD
	}
	return IDENT
}
