package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(UnknownDifficulty)
}

// UnknownDifficulty flags tiers outside the accepted set.
var UnknownDifficulty = corpus.RuleDef{
	ID:          "CB06",
	Name:        "taxonomy.unknown-difficulty",
	Group:       "taxonomy",
	Description: "Difficulty tier must be one of the accepted tiers.",
	Severity:    lint.SeverityError,
	Check:       checkUnknownDifficulty,

	Rationale: `The tier set is closed (easy/medium/hard). An unexpected tier
directory is almost always a misspelled one.`,

	Fix: "Rename the tier directory to {easy|medium|hard}_level_queries.",
}

func checkUnknownDifficulty(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	tiers := make(map[string]bool)
	for _, t := range ctx.KnownDifficulties() {
		tiers[t] = true
	}

	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		if !q.PathValid || q.Difficulty == "" || tiers[q.Difficulty] {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB06",
			Severity: lint.SeverityError,
			Message:  fmt.Sprintf("unknown difficulty tier %q", q.Difficulty),
			File:     q.FilePath,
			Stmt:     -1,
		})
	}
	return diags
}
