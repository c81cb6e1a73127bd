package rules

import (
	"fmt"

	"github.com/clinbench-io/clinbench/pkg/lint"
	"github.com/clinbench-io/clinbench/pkg/lint/corpus"
)

func init() {
	corpus.Register(IDMismatch)
}

// IDMismatch requires the directory id and the filename id to agree.
var IDMismatch = corpus.RuleDef{
	ID:          "CB02",
	Name:        "layout.id-mismatch",
	Group:       "layout",
	Description: "Directory id and sql_{id}.sql filename id must match.",
	Severity:    lint.SeverityError,
	Check:       checkIDMismatch,

	Rationale: `The id appears twice in the path on purpose: the directory addresses
the query, the filename self-identifies when detached. A disagreement means one
of them is wrong.`,

	Fix: "Rename the file or the directory so both carry the same id.",
}

func checkIDMismatch(ctx lint.CorpusContext, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, q := range ctx.Queries() {
		if q.DirID == "" || q.FileID == "" || q.DirID == q.FileID {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "CB02",
			Severity: lint.SeverityError,
			Message:  fmt.Sprintf("directory id %s does not match filename id %s", q.DirID, q.FileID),
			File:     q.FilePath,
			Stmt:     -1,
		})
	}
	return diags
}
