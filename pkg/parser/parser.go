package parser

import "strings"

// Parser consumes a token stream and extracts statement shape.
type Parser struct {
	toks     []Token
	pos      int
	stmt     *Statement
	cteNames map[string]bool
	depth    int // query nesting depth; 1 = outermost
}

// Parse parses a single SQL statement. The input may carry a trailing
// semicolon; anything after it is an error.
func Parse(sql string) (*Statement, error) {
	p := &Parser{
		toks:     Lex(sql),
		stmt:     &Statement{},
		cteNames: make(map[string]bool),
	}
	if p.cur().Type == EOF {
		return nil, errorf(p.cur().Pos, "empty statement")
	}
	p.stmt.Pos = p.cur().Pos

	if err := p.parseQuery(); err != nil {
		return nil, err
	}

	if p.cur().Type == SEMI {
		p.stmt.Terminated = true
		p.next()
	}
	if p.cur().Type != EOF {
		return nil, errorf(p.cur().Pos, "unexpected %q after end of statement", p.cur().Literal)
	}

	// Resolve CTE references now that all WITH names are known.
	for i := range p.stmt.Tables {
		t := &p.stmt.Tables[i]
		if !t.Quoted && t.Dots == 0 && p.cteNames[strings.ToLower(t.Name)] {
			t.CTE = true
		}
	}
	return p.stmt, nil
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) next() { p.pos++ }

// parseQuery parses [WITH ...] select-body [set-ops] [ORDER BY][LIMIT].
func (p *Parser) parseQuery() error {
	p.depth++
	defer func() { p.depth-- }()
	outer := p.depth == 1

	if p.cur().Keyword("with") {
		if err := p.parseCTEs(); err != nil {
			return err
		}
	}

	if err := p.parseSelectBody(outer); err != nil {
		return err
	}

	// Set operations chain further select bodies.
	for p.cur().Keyword("union") || p.cur().Keyword("intersect") || p.cur().Keyword("except") {
		if outer {
			p.stmt.Clauses.SetOp = true
		}
		p.next()
		if p.cur().Keyword("all") || p.cur().Keyword("distinct") {
			p.next()
		}
		if err := p.parseSelectBody(false); err != nil {
			return err
		}
	}

	if p.cur().Keyword("order") {
		if outer {
			p.stmt.Clauses.OrderBy = true
		}
		p.next()
		if !p.cur().Keyword("by") {
			return errorf(p.cur().Pos, "expected BY after ORDER, got %q", p.cur().Literal)
		}
		p.next()
		if err := p.parseExprList(); err != nil {
			return err
		}
	}
	if p.cur().Keyword("limit") {
		if outer {
			p.stmt.Clauses.Limit = true
		}
		p.next()
		if err := p.scanExpr(); err != nil {
			return err
		}
		if p.cur().Keyword("offset") {
			p.next()
			if err := p.scanExpr(); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseCTEs parses WITH [RECURSIVE] name AS (query) {, name AS (query)}.
func (p *Parser) parseCTEs() error {
	p.next() // with
	if p.cur().Keyword("recursive") {
		p.next()
	}
	for {
		if p.cur().Type != IDENT {
			return errorf(p.cur().Pos, "expected CTE name, got %q", p.cur().Literal)
		}
		name := p.cur().Literal
		p.cteNames[strings.ToLower(name)] = true
		p.stmt.CTEs = append(p.stmt.CTEs, name)
		p.next()

		// Optional column list.
		if p.cur().Type == LPAREN {
			if err := p.scanParens(); err != nil {
				return err
			}
		}
		if !p.cur().Keyword("as") {
			return errorf(p.cur().Pos, "expected AS in CTE %s, got %q", name, p.cur().Literal)
		}
		p.next()
		if p.cur().Type != LPAREN {
			return errorf(p.cur().Pos, "expected ( after AS in CTE %s", name)
		}
		p.next()
		if err := p.parseQuery(); err != nil {
			return err
		}
		if p.cur().Type != RPAREN {
			return errorf(p.cur().Pos, "expected ) to close CTE %s, got %q", name, p.cur().Literal)
		}
		p.next()

		if p.cur().Type != COMMA {
			return nil
		}
		p.next()
	}
}

// parseSelectBody parses a SELECT core or a parenthesized query.
func (p *Parser) parseSelectBody(outer bool) error {
	if p.cur().Type == LPAREN {
		p.next()
		if err := p.parseQuery(); err != nil {
			return err
		}
		if p.cur().Type != RPAREN {
			return errorf(p.cur().Pos, "expected ), got %q", p.cur().Literal)
		}
		p.next()
		return nil
	}
	if !p.cur().Keyword("select") {
		return errorf(p.cur().Pos, "expected SELECT, got %q", p.cur().Literal)
	}
	p.next()

	if p.cur().Keyword("distinct") {
		if outer {
			p.stmt.Distinct = true
		}
		p.next()
	} else if p.cur().Keyword("all") {
		p.next()
	}
	// SELECT AS STRUCT / AS VALUE
	if p.cur().Keyword("as") {
		p.next()
		p.next()
	}

	if err := p.parseSelectList(outer); err != nil {
		return err
	}

	for {
		switch {
		case p.cur().Keyword("from"):
			if outer {
				p.stmt.Clauses.From = true
			}
			p.next()
			if err := p.parseFrom(); err != nil {
				return err
			}
		case p.cur().Keyword("where"):
			if outer {
				p.stmt.Clauses.Where = true
			}
			p.next()
			if err := p.scanExpr(); err != nil {
				return err
			}
		case p.cur().Keyword("group"):
			if outer {
				p.stmt.Clauses.GroupBy = true
			}
			p.next()
			if !p.cur().Keyword("by") {
				return errorf(p.cur().Pos, "expected BY after GROUP, got %q", p.cur().Literal)
			}
			p.next()
			if err := p.parseExprList(); err != nil {
				return err
			}
		case p.cur().Keyword("having"):
			if outer {
				p.stmt.Clauses.Having = true
			}
			p.next()
			if err := p.scanExpr(); err != nil {
				return err
			}
		case p.cur().Keyword("qualify"):
			if outer {
				p.stmt.Clauses.Qualify = true
			}
			p.next()
			if err := p.scanExpr(); err != nil {
				return err
			}
		case p.cur().Keyword("window"):
			if outer {
				p.stmt.Clauses.Window = true
			}
			p.next()
			if err := p.scanExpr(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseSelectList parses the select items. Only the outermost list is
// recorded on the statement.
func (p *Parser) parseSelectList(outer bool) error {
	for {
		item := SelectItem{Pos: p.cur().Pos}
		switch {
		case p.cur().Type == STAR:
			item.Star = true
			p.next()
			// Optional EXCEPT(...) / REPLACE(...) after star.
			if p.cur().Keyword("except") || (p.cur().Type == IDENT && strings.EqualFold(p.cur().Literal, "replace")) {
				p.next()
				if p.cur().Type == LPAREN {
					if err := p.scanParens(); err != nil {
						return err
					}
				}
			}
		case p.cur().Type == IDENT && p.peek().Type == DOT && p.tokAt(p.pos+2).Type == STAR:
			item.TableStar = p.cur().Literal
			p.next()
			p.next()
			p.next()
		default:
			if err := p.scanExpr(); err != nil {
				return err
			}
			if p.cur().Keyword("as") {
				p.next()
				if p.cur().Type != IDENT && p.cur().Type != STRING {
					return errorf(p.cur().Pos, "expected alias after AS, got %q", p.cur().Literal)
				}
				item.Alias = p.cur().Literal
				p.next()
			} else if p.cur().Type == IDENT {
				item.Alias = p.cur().Literal
				p.next()
			}
		}
		if outer {
			p.stmt.Columns = append(p.stmt.Columns, item)
		}
		if p.cur().Type != COMMA {
			return nil
		}
		p.next()
	}
}

func (p *Parser) tokAt(i int) Token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// parseFrom parses the FROM clause: table items joined by commas or JOIN
// operators, with optional ON/USING conditions.
func (p *Parser) parseFrom() error {
	if err := p.parseTableItem(); err != nil {
		return err
	}
	for {
		switch {
		case p.cur().Type == COMMA:
			j := Join{Type: "comma", Pos: p.cur().Pos}
			p.next()
			// Comma before UNNEST is array correlation, not a Cartesian join.
			isUnnest := p.cur().Keyword("unnest")
			if err := p.parseTableItem(); err != nil {
				return err
			}
			if !isUnnest {
				p.stmt.Joins = append(p.stmt.Joins, j)
			}
		case p.cur().Keyword("cross"):
			j := Join{Type: "cross", Pos: p.cur().Pos}
			p.next()
			if !p.cur().Keyword("join") {
				return errorf(p.cur().Pos, "expected JOIN after CROSS, got %q", p.cur().Literal)
			}
			p.next()
			if err := p.parseTableItem(); err != nil {
				return err
			}
			p.stmt.Joins = append(p.stmt.Joins, j)
		case p.cur().Keyword("join") || p.cur().Keyword("inner") ||
			p.cur().Keyword("left") || p.cur().Keyword("right") || p.cur().Keyword("full"):
			j := Join{Type: "inner", Pos: p.cur().Pos}
			if !p.cur().Keyword("join") {
				j.Type = p.cur().Literal
				p.next()
				if p.cur().Keyword("outer") {
					p.next()
				}
			}
			if !p.cur().Keyword("join") {
				return errorf(p.cur().Pos, "expected JOIN, got %q", p.cur().Literal)
			}
			p.next()
			if err := p.parseTableItem(); err != nil {
				return err
			}
			switch {
			case p.cur().Keyword("on"):
				j.HasCondition = true
				p.next()
				if err := p.scanExpr(); err != nil {
					return err
				}
			case p.cur().Keyword("using"):
				j.HasCondition = true
				p.next()
				if p.cur().Type != LPAREN {
					return errorf(p.cur().Pos, "expected ( after USING")
				}
				if err := p.scanParens(); err != nil {
					return err
				}
			}
			p.stmt.Joins = append(p.stmt.Joins, j)
		default:
			return nil
		}
	}
}

// parseTableItem parses one FROM item: a table name, a subquery, or an
// UNNEST expression, with an optional alias.
func (p *Parser) parseTableItem() error {
	switch {
	case p.cur().Type == QIDENT:
		ref := TableRef{
			Name:   p.cur().Literal,
			Quoted: true,
			Dots:   strings.Count(p.cur().Literal, "."),
			Pos:    p.cur().Pos,
		}
		p.next()
		ref.Alias = p.parseAlias()
		p.stmt.Tables = append(p.stmt.Tables, ref)
	case p.cur().Type == IDENT:
		ref := TableRef{Name: p.cur().Literal, Pos: p.cur().Pos}
		p.next()
		for p.cur().Type == DOT {
			p.next()
			if p.cur().Type != IDENT {
				return errorf(p.cur().Pos, "expected identifier after '.', got %q", p.cur().Literal)
			}
			ref.Name += "." + p.cur().Literal
			ref.Dots++
			p.next()
		}
		ref.Alias = p.parseAlias()
		p.stmt.Tables = append(p.stmt.Tables, ref)
	case p.cur().Type == LPAREN:
		p.next()
		if p.cur().Keyword("select") || p.cur().Keyword("with") {
			if err := p.parseQuery(); err != nil {
				return err
			}
		} else if err := p.parseFrom(); err != nil { // parenthesized join
			return err
		}
		if p.cur().Type != RPAREN {
			return errorf(p.cur().Pos, "expected ), got %q", p.cur().Literal)
		}
		p.next()
		p.parseAlias()
	case p.cur().Keyword("unnest"):
		p.stmt.Functions = append(p.stmt.Functions, FuncCall{Name: "unnest", Pos: p.cur().Pos})
		p.next()
		if p.cur().Type != LPAREN {
			return errorf(p.cur().Pos, "expected ( after UNNEST")
		}
		if err := p.scanParens(); err != nil {
			return err
		}
		p.parseAlias()
		// UNNEST ... WITH OFFSET [AS alias]
		if p.cur().Keyword("with") && p.peek().Keyword("offset") {
			p.next()
			p.next()
			p.parseAlias()
		}
	default:
		return errorf(p.cur().Pos, "expected table reference, got %q", p.cur().Literal)
	}
	return nil
}

// parseAlias consumes an optional [AS] alias and returns it.
func (p *Parser) parseAlias() string {
	if p.cur().Keyword("as") {
		p.next()
		if p.cur().Type == IDENT {
			a := p.cur().Literal
			p.next()
			return a
		}
		return ""
	}
	if p.cur().Type == IDENT {
		a := p.cur().Literal
		p.next()
		return a
	}
	return ""
}

// exprBoundary reports whether tok ends a permissive expression scan at
// zero paren depth. CASE bodies are handled separately via caseDepth.
func exprBoundary(tok Token) bool {
	if tok.Type == COMMA || tok.Type == SEMI || tok.Type == RPAREN ||
		tok.Type == RBRACKET || tok.Type == EOF {
		return true
	}
	if tok.Type != KEYWORD {
		return false
	}
	switch tok.Literal {
	case "from", "where", "group", "having", "qualify", "order", "limit",
		"offset", "window", "union", "intersect", "except", "on", "using",
		"join", "inner", "left", "right", "full", "cross", "as":
		return true
	}
	return false
}

// scanExpr consumes one expression permissively, recording function calls
// and recursing into subqueries. It stops at expression boundaries.
func (p *Parser) scanExpr() error {
	consumed := 0
	caseDepth := 0
	for {
		tok := p.cur()
		if tok.Type == EOF {
			if consumed == 0 {
				return errorf(tok.Pos, "unexpected end of statement in expression")
			}
			return nil
		}
		if caseDepth == 0 && exprBoundary(tok) {
			// LEFT( / RIGHT( are the string functions, not join keywords.
			if (tok.Keyword("left") || tok.Keyword("right")) && p.peek().Type == LPAREN {
				p.stmt.Functions = append(p.stmt.Functions, FuncCall{Name: tok.Literal, Pos: tok.Pos})
				p.next()
				if err := p.scanParens(); err != nil {
					return err
				}
				consumed++
				continue
			}
			if consumed == 0 {
				return errorf(tok.Pos, "expected expression, got %q", tok.Literal)
			}
			return nil
		}

		switch {
		case tok.Keyword("case"):
			caseDepth++
			p.next()
		case tok.Keyword("end"):
			if caseDepth == 0 {
				return errorf(tok.Pos, "END without CASE")
			}
			caseDepth--
			p.next()
		case tok.Keyword("not") && p.peek().Keyword("in"):
			pos := tok.Pos
			p.next()
			p.next()
			if p.cur().Type == LPAREN &&
				(p.peek().Keyword("select") || p.peek().Keyword("with")) {
				p.stmt.NotInSubqueries = append(p.stmt.NotInSubqueries, pos)
			}
		case (tok.Type == IDENT || tok.Keyword("cast") || tok.Keyword("extract") ||
			tok.Keyword("struct") || tok.Keyword("any") || tok.Keyword("all") ||
			tok.Keyword("grouping")) && p.peek().Type == LPAREN:
			p.stmt.Functions = append(p.stmt.Functions, FuncCall{
				Name: strings.ToLower(tok.Literal),
				Pos:  tok.Pos,
			})
			p.next()
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LPAREN:
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LBRACKET:
			if err := p.scanBrackets(); err != nil {
				return err
			}
		case tok.Type == ILLEGAL:
			return errorf(tok.Pos, "illegal character %q", tok.Literal)
		default:
			p.recordBare(tok)
			p.next()
		}
		consumed++
	}
}

// parenlessFuncs are BigQuery builtins callable without parentheses.
var parenlessFuncs = map[string]bool{
	"current_date":      true,
	"current_datetime":  true,
	"current_time":      true,
	"current_timestamp": true,
	"session_user":      true,
}

// recordBare records operators and parenless builtins seen during
// permissive expression scans.
func (p *Parser) recordBare(tok Token) {
	switch {
	case tok.Type == SLASH:
		p.stmt.Divisions = append(p.stmt.Divisions, tok.Pos)
	case tok.Type == IDENT && parenlessFuncs[strings.ToLower(tok.Literal)]:
		p.stmt.Functions = append(p.stmt.Functions, FuncCall{
			Name: strings.ToLower(tok.Literal),
			Pos:  tok.Pos,
		})
	}
}

// parseExprList consumes a comma-separated expression list, each entry
// optionally followed by ASC/DESC and NULLS FIRST/LAST.
func (p *Parser) parseExprList() error {
	for {
		if err := p.scanExpr(); err != nil {
			return err
		}
		if p.cur().Keyword("asc") || p.cur().Keyword("desc") {
			p.next()
		}
		if p.cur().Keyword("nulls") {
			p.next()
			if p.cur().Keyword("first") || p.cur().Keyword("last") {
				p.next()
			}
		}
		if p.cur().Type != COMMA {
			return nil
		}
		p.next()
	}
}

// scanParens consumes a balanced parenthesized group starting at the
// current LPAREN, recording nested function calls and recursing into
// subqueries.
func (p *Parser) scanParens() error {
	open := p.cur().Pos
	p.next() // consume (
	for {
		tok := p.cur()
		switch {
		case tok.Type == EOF:
			return errorf(open, "unclosed parenthesis")
		case tok.Type == RPAREN:
			p.next()
			return nil
		case tok.Keyword("select") || tok.Keyword("with"):
			if err := p.parseQuery(); err != nil {
				return err
			}
		case (tok.Type == IDENT || tok.Keyword("cast") || tok.Keyword("extract") ||
			tok.Keyword("struct") || tok.Keyword("left") || tok.Keyword("right")) &&
			p.peek().Type == LPAREN:
			p.stmt.Functions = append(p.stmt.Functions, FuncCall{
				Name: strings.ToLower(tok.Literal),
				Pos:  tok.Pos,
			})
			p.next()
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LPAREN:
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LBRACKET:
			if err := p.scanBrackets(); err != nil {
				return err
			}
		case tok.Type == ILLEGAL:
			return errorf(tok.Pos, "illegal character %q", tok.Literal)
		default:
			p.recordBare(tok)
			p.next()
		}
	}
}

// scanBrackets consumes a balanced bracket group (array access, e.g.
// APPROX_QUANTILES(x, 100)[OFFSET(50)]).
func (p *Parser) scanBrackets() error {
	open := p.cur().Pos
	p.next() // consume [
	for {
		tok := p.cur()
		switch {
		case tok.Type == EOF:
			return errorf(open, "unclosed bracket")
		case tok.Type == RBRACKET:
			p.next()
			return nil
		case (tok.Type == IDENT || tok.Keyword("offset")) && p.peek().Type == LPAREN:
			p.stmt.Functions = append(p.stmt.Functions, FuncCall{
				Name: strings.ToLower(tok.Literal),
				Pos:  tok.Pos,
			})
			p.next()
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LPAREN:
			if err := p.scanParens(); err != nil {
				return err
			}
		case tok.Type == LBRACKET:
			if err := p.scanBrackets(); err != nil {
				return err
			}
		default:
			p.recordBare(tok)
			p.next()
		}
	}
}
