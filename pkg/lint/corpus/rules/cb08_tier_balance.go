package rules

import (
	"fmt"
	"sort"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(TierBalance)
}

// defaultBalanceRatio is the minimum accepted min/max tier-count ratio
// within one (split, category) group.
const defaultBalanceRatio = 0.5

// TierBalance hints when difficulty tiers are heavily skewed.
var TierBalance = corpus.RuleDef{
	ID:          "CB08",
	Name:        "taxonomy.tier-balance",
	Group:       "taxonomy",
	Description: "Difficulty tiers within a category should be roughly balanced.",
	Severity:    lint.SeverityHint,
	Check:       checkTierBalance,

	Rationale: `Tiers are assigned by the corpus authors, so skew is sometimes
intentional. A category with 40 easy queries and 2 hard ones still makes a poor
difficulty signal, which is worth a glance.`,

	Fix: "Author more queries for the thin tiers, or accept the skew (rule option min_ratio).",
}

func checkTierBalance(ctx lint.CorpusContext, opts map[string]any) []lint.Diagnostic {
	minRatio := defaultBalanceRatio
	if v, ok := opts["min_ratio"].(float64); ok && v > 0 {
		minRatio = v
	}

	type group struct{ split, category string }
	counts := make(map[group]map[string]int)
	for _, q := range ctx.Queries() {
		if !q.PathValid {
			continue
		}
		g := group{q.Split, q.Category}
		if counts[g] == nil {
			counts[g] = make(map[string]int)
		}
		counts[g][q.Difficulty]++
	}

	groups := make([]group, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].split != groups[j].split {
			return groups[i].split < groups[j].split
		}
		return groups[i].category < groups[j].category
	})

	var diags []lint.Diagnostic
	for _, g := range groups {
		tiers := counts[g]
		if len(tiers) < 2 {
			continue
		}
		minCount, maxCount := -1, 0
		for _, n := range tiers {
			if minCount < 0 || n < minCount {
				minCount = n
			}
			if n > maxCount {
				maxCount = n
			}
		}
		if maxCount == 0 || float64(minCount)/float64(maxCount) >= minRatio {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB08",
			Severity: lint.SeverityHint,
			Message: fmt.Sprintf("difficulty tiers in %s/%s are skewed (min %d, max %d queries per tier)",
				g.split, g.category, minCount, maxCount),
			File: "splits/" + g.split + "/" + g.category,
			Stmt: -1,
		})
	}
	return diags
}
