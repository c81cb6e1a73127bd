package parser

// Statement is the parsed shape of a single corpus query statement.
// It captures the structural facts lint rules need; it is not a full AST.
type Statement struct {
	// Distinct is true when the outermost select list uses DISTINCT.
	Distinct bool
	// Columns holds the outermost select-list items.
	Columns []SelectItem
	// CTEs are the WITH-clause names, in declaration order.
	CTEs []string
	// Tables are all table references found anywhere in the statement,
	// including inside subqueries and CTE bodies.
	Tables []TableRef
	// Joins are all join operators found anywhere in the statement.
	Joins []Join
	// Functions are all function invocations, lowercased.
	Functions []FuncCall
	// Clauses records which clauses the outermost query uses.
	Clauses ClauseSet
	// Divisions are the positions of raw / operators.
	Divisions []Position
	// NotInSubqueries are the positions of NOT IN (SELECT ...) predicates.
	NotInSubqueries []Position
	// Terminated is true when the statement ends with a semicolon.
	Terminated bool
	// Pos is the position of the first token.
	Pos Position
}

// SelectItem is one entry of the outermost select list.
type SelectItem struct {
	Star      bool   // bare *
	TableStar string // t.* (alias before the star)
	Alias     string // explicit AS alias, if any
	Pos       Position
}

// TableRef is a table reference from a FROM clause.
type TableRef struct {
	Name   string // as written; backtick contents for quoted refs
	Quoted bool   // backtick-quoted
	Dots   int    // dot-separated parts minus one
	CTE    bool   // resolves to a WITH-clause name
	Alias  string
	Pos    Position
}

// Join is a join operator between two FROM items.
type Join struct {
	Type         string // inner, left, right, full, cross, comma
	HasCondition bool   // has ON or USING
	Pos          Position
}

// FuncCall is a function invocation.
type FuncCall struct {
	Name string // lowercased
	Pos  Position
}

// ClauseSet records which clauses appear in the outermost query.
type ClauseSet struct {
	From    bool
	Where   bool
	GroupBy bool
	Having  bool
	Qualify bool
	OrderBy bool
	Limit   bool
	Window  bool
	SetOp   bool // UNION / INTERSECT / EXCEPT
}

// ExternalTables returns table references that are not CTE names, i.e.
// reads against the target schema.
func (s *Statement) ExternalTables() []TableRef {
	var out []TableRef
	for _, t := range s.Tables {
		if !t.CTE {
			out = append(out, t)
		}
	}
	return out
}

// CallsFunc reports whether the statement calls the named function.
func (s *Statement) CallsFunc(name string) bool {
	for _, f := range s.Functions {
		if f.Name == name {
			return true
		}
	}
	return false
}
