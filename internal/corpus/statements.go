package corpus

import (
	"regexp"
	"strings"

	"github.com/clinbench-io/clinbench/pkg/parser"
)

// Files that bundle several candidate solutions separate them either with a
// trailing semicolon or with a comment rule line such as "-- ====".
var separatorLine = regexp.MustCompile(`^--\s*={3,}\s*$`)

// SplitStatements cuts a query file into individual statements. A leading
// UTF-8 BOM is dropped. Semicolons inside strings, backtick identifiers,
// and comments are ignored. Chunks that contain nothing but whitespace and
// comments are dropped, so a file of pure commentary yields no statements.
func SplitStatements(raw string) []Statement {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	var (
		out   []Statement
		start int // byte offset of the current chunk
		line  = 1 // line of the scan position
		sline = 1 // line of the current chunk start
	)

	flush := func(end, nextStart int) {
		chunk := raw[start:end]
		if hasSQLContent(chunk) {
			out = append(out, Statement{
				SQL:   strings.TrimSpace(chunk),
				Index: len(out),
				Line:  sline + leadingBlankLines(chunk),
			})
		}
		start = nextStart
	}

	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == '\n':
			line++
			i++
		case ch == '-' && i+1 < len(raw) && raw[i+1] == '-':
			lineStart := i
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
			if separatorLine.MatchString(strings.TrimRight(raw[lineStart:i], "\r")) &&
				isLineStart(raw, lineStart) {
				flush(lineStart, i)
				sline = line
			}
		case ch == '#':
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
		case ch == '/' && i+1 < len(raw) && raw[i+1] == '*':
			i += 2
			for i < len(raw) {
				if raw[i] == '\n' {
					line++
				}
				if raw[i] == '*' && i+1 < len(raw) && raw[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
		case ch == '\'' || ch == '"':
			i = skipString(raw, i, ch, &line)
		case ch == '`':
			i++
			for i < len(raw) && raw[i] != '`' {
				if raw[i] == '\n' {
					line++
				}
				i++
			}
			i++
		case ch == ';':
			i++
			flush(i, i)
			sline = line
		default:
			i++
		}
	}
	flush(len(raw), len(raw))
	return out
}

// skipString advances past a quoted literal starting at raw[i] == quote,
// honoring backslash escapes and doubled quotes.
func skipString(raw string, i int, quote byte, line *int) int {
	i++
	for i < len(raw) {
		switch raw[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			*line++
		case quote:
			if i+1 < len(raw) && raw[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// hasSQLContent reports whether a chunk lexes to at least one real token.
func hasSQLContent(chunk string) bool {
	toks := parser.Lex(chunk)
	return len(toks) > 0 && toks[0].Type != parser.EOF
}

func isLineStart(raw string, off int) bool {
	for off > 0 {
		off--
		switch raw[off] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func leadingBlankLines(chunk string) int {
	n := 0
	for _, r := range chunk {
		switch r {
		case '\n':
			n++
		case ' ', '\t', '\r':
		default:
			return n
		}
	}
	return n
}
