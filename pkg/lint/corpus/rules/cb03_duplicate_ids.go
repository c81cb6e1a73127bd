package rules

import (
	"fmt"
	"sort"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(DuplicateIDs)
}

// DuplicateIDs forbids two files claiming the same corpus coordinate.
var DuplicateIDs = corpus.RuleDef{
	ID:          "CB03",
	Name:        "layout.duplicate-ids",
	Group:       "layout",
	Description: "No two files may share (split, category, difficulty, id).",
	Severity:    lint.SeverityError,
	Check:       checkDuplicateIDs,

	Rationale: `The coordinate is the query's identity. Two files at the same
coordinate make the benchmark ambiguous: a harness cannot know which one the
golden answer belongs to.`,

	Fix: "Renumber one of the conflicting queries.",
}

func checkDuplicateIDs(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	byKey := make(map[string][]lint.QueryInfo)
	for _, q := range ctx.Queries() {
		if !q.PathValid {
			continue
		}
		key := fmt.Sprintf("%s/%s/%s/%s", q.Split, q.Category, q.Difficulty, q.ID)
		byKey[key] = append(byKey[key], q)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diags []lint.Diagnostic
	for _, key := range keys {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		for _, q := range group[1:] {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "CB03",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("duplicate query coordinate %s (also claimed by %s)", key, group[0].FilePath),
				File:     q.FilePath,
				Stmt:     -1,
			})
		}
	}
	return diags
}
