// Package parser provides a lexer and statement-shape parser for the
// BigQuery-flavored SQL dialect used by the benchmark corpus. It validates
// structure and extracts table references, function calls, and clause usage
// for linting. It does not type-check expressions or resolve schemas.
package parser

import (
	"strings"
	"unicode"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	var tok Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = EOF
		tok.Literal = ""
	case '+':
		tok = l.newToken(PLUS, "+")
	case '-':
		tok = l.newToken(MINUS, "-")
	case '*':
		tok = l.newToken(STAR, "*")
	case '/':
		tok = l.newToken(SLASH, "/")
	case '%':
		tok = l.newToken(PERCENT, "%")
	case '=':
		tok = l.newToken(EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = Token{Type: NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(ILLEGAL, string(l.ch))
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: CONCAT, Literal: "||", Pos: pos}
		} else {
			tok = l.newToken(ILLEGAL, string(l.ch))
		}
	case '.':
		tok = l.newToken(DOT, ".")
	case ',':
		tok = l.newToken(COMMA, ",")
	case ';':
		tok = l.newToken(SEMI, ";")
	case '(':
		tok = l.newToken(LPAREN, "(")
	case ')':
		tok = l.newToken(RPAREN, ")")
	case '[':
		tok = l.newToken(LBRACKET, "[")
	case ']':
		tok = l.newToken(RBRACKET, "]")
	case '@':
		l.readChar()
		tok.Type = PARAM
		tok.Literal = l.readIdentifier()
		tok.Pos = pos
		return tok
	case '\'', '"':
		// BigQuery: both quote styles are string literals.
		tok.Type = STRING
		tok.Literal = l.readString(l.ch)
		tok.Pos = pos
		return tok
	case '`':
		tok.Type = QIDENT
		tok.Literal = l.readBacktickIdent()
		tok.Pos = pos
		return tok
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			lit := l.readIdentifier()
			lower := strings.ToLower(lit)
			// Raw string prefix: r'...' or r"..."
			if (lower == "r" || lower == "b" || lower == "rb" || lower == "br") &&
				(l.ch == '\'' || l.ch == '"') {
				tok.Type = STRING
				tok.Literal = l.readString(l.ch)
				tok.Pos = pos
				return tok
			}
			tok.Type = LookupIdent(lower)
			if tok.Type == KEYWORD {
				tok.Literal = lower
			} else {
				tok.Literal = lit
			}
			tok.Pos = pos
			return tok
		case isDigit(l.ch):
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			tok.Pos = pos
			return tok
		default:
			tok = l.newToken(ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a single-character token and keeps the lexer position.
func (l *Lexer) newToken(t TokenType, lit string) Token {
	return Token{Type: t, Literal: lit, Pos: l.currentPos()}
}

// skipWhitespaceAndComments consumes whitespace, line comments (-- and #),
// and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			l.skipLineComment()
		case l.ch == '#':
			l.skipLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume /
	l.readChar() // consume *
	for {
		if l.ch == 0 {
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// readString reads a string literal delimited by quote, handling backslash
// escapes and doubled quotes. The opening quote is the current char.
func (l *Lexer) readString(quote byte) string {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for {
		switch l.ch {
		case 0:
			return sb.String() // unterminated; parser reports at EOF
		case '\\':
			l.readChar()
			if l.ch != 0 {
				sb.WriteByte(l.ch)
				l.readChar()
			}
		case quote:
			if l.peekChar() == quote {
				sb.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			return sb.String()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readBacktickIdent reads a backtick-quoted identifier. Dotted names stay
// a single token: `project.dataset.table`.
func (l *Lexer) readBacktickIdent() string {
	l.readChar() // consume opening backtick
	start := l.pos
	for l.ch != '`' && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	if l.ch == '`' {
		l.readChar()
	}
	return lit
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	// Exponent: 1e10, 4.5E-3
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Lex tokenizes the whole input, including the trailing EOF token.
func Lex(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}
