// Package corpus models the benchmark corpus on disk: the split/category/
// difficulty taxonomy, the path naming convention, and discovery of query
// files. Queries are static artifacts; nothing here executes SQL.
package corpus

import (
	"sort"
)

// Split is a benchmark partition.
type Split string

const (
	SplitTest       Split = "test"
	SplitValidation Split = "validation"
)

// Splits lists the accepted splits in canonical order.
func Splits() []Split { return []Split{SplitTest, SplitValidation} }

// Difficulty is a query complexity tier assigned by the corpus authors.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted tiers in canonical order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Ref is the corpus coordinate of one query.
type Ref struct {
	Split      Split
	Category   string
	Difficulty Difficulty
	ID         string // numeric string, leading zeros preserved
}

// Statement is one SQL statement of a query file. Files may hold several
// alternative solutions to the same question.
type Statement struct {
	SQL   string
	Index int
	Line  int // 1-based line in the file where the statement begins
}

// Query is one benchmark query file.
type Query struct {
	PathInfo
	Raw        string
	Statements []Statement
	ExtraFiles []string // unexpected siblings in the leaf directory
	Bytes      int64
}

// Corpus is the discovered benchmark corpus.
type Corpus struct {
	Root    string
	Queries []*Query

	byKey map[Ref]*Query
}

// Reindex rebuilds the coordinate index over Queries. Only queries with a
// valid path and agreeing ids are addressable; duplicates keep the first
// occurrence.
func (c *Corpus) Reindex() {
	c.byKey = make(map[Ref]*Query, len(c.Queries))
	for _, q := range c.Queries {
		if q.Valid && q.DirID == q.FileID {
			if _, dup := c.byKey[q.Ref]; !dup {
				c.byKey[q.Ref] = q
			}
		}
	}
}

// Get returns the query at the given coordinate.
func (c *Corpus) Get(ref Ref) (*Query, bool) {
	q, ok := c.byKey[ref]
	return q, ok
}

// Filter returns queries matching the non-empty criteria, in discovery
// order.
func (c *Corpus) Filter(split, category, difficulty string) []*Query {
	var out []*Query
	for _, q := range c.Queries {
		if !q.Valid {
			continue
		}
		if split != "" && string(q.Split) != split {
			continue
		}
		if category != "" && q.Category != category {
			continue
		}
		if difficulty != "" && string(q.Difficulty) != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Categories returns the sorted set of category names present in the corpus.
func (c *Corpus) Categories() []string {
	seen := make(map[string]bool)
	for _, q := range c.Queries {
		if q.Valid {
			seen[q.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Stats are corpus-level counts.
type Stats struct {
	Total      int            `json:"total"`
	Invalid    int            `json:"invalid"`
	Statements int            `json:"statements"`
	BySplit    map[string]int `json:"by_split"`
	ByCategory map[string]int `json:"by_category"`
	ByTier     map[string]int `json:"by_tier"`
}

// Counts computes distribution statistics over the corpus.
func (c *Corpus) Counts() Stats {
	s := Stats{
		BySplit:    make(map[string]int),
		ByCategory: make(map[string]int),
		ByTier:     make(map[string]int),
	}
	for _, q := range c.Queries {
		s.Total++
		s.Statements += len(q.Statements)
		if !q.Valid {
			s.Invalid++
			continue
		}
		s.BySplit[string(q.Split)]++
		s.ByCategory[q.Category]++
		s.ByTier[string(q.Difficulty)]++
	}
	return s
}
