package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(UnknownCategory)
}

// UnknownCategory flags categories outside the configured set.
var UnknownCategory = corpus.RuleDef{
	ID:          "CB05",
	Name:        "taxonomy.unknown-category",
	Group:       "taxonomy",
	Description: "Category directories must come from the configured category set.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnknownCategory,

	Rationale: `Category names are load-bearing: consumers filter and report by
them. A typo like Labratory_Results_Analysis forks the taxonomy silently.
The set is configuration, not code, so new subdomains remain cheap to add.`,

	Fix: "Fix the directory name, or add the category to categories in clinbench.yaml.",
}

func checkUnknownCategory(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	known := ctx.KnownCategories()
	if len(known) == 0 {
		return nil
	}
	knownSet := make(map[string]bool, len(known))
	for _, c := range known {
		knownSet[c] = true
	}

	var diags []lint.Diagnostic
	seen := make(map[string]bool)
	for _, q := range ctx.Queries() {
		if !q.PathValid || knownSet[q.Category] || seen[q.Split+"/"+q.Category] {
			continue
		}
		seen[q.Split+"/"+q.Category] = true
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB05",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("category %q is not in the configured category set", q.Category),
			File:     q.FilePath,
			Stmt:     -1,
		})
	}
	return diags
}
