package commands

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/internal/manifest"
	"github.com/clinbench-io/clinbench/internal/state"
	_ "github.com/clinbench-io/clinbench/pkg/lint/corpus/rules" // register corpus rules
	_ "github.com/clinbench-io/clinbench/pkg/lint/sql/rules"    // register SQL rules
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index the corpus into the state database",
		Long: `Walk the corpus, parse every statement, run all lint rules, and
persist the results. Indexed corpora can be summarized and searched
without re-walking the filesystem (see the stats and search commands).`,
		Example: `  # Index the configured corpus
  clinbench index

  # Index into an explicit state database
  clinbench index --state /tmp/clinbench.db`,
		RunE: runIndex,
	}
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}
	parsed := corpus.ParseAll(crp)
	m := manifest.Build(crp)

	diags, err := lintCorpus(cmd.Context(), cmdCtx, &LintOptions{Severity: "hint"})
	if err != nil {
		return err
	}

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := store.BeginIndexRun(crp.Root, m.Fingerprint)
	if err != nil {
		return err
	}

	statements := 0
	for _, pq := range parsed {
		rec, stmts := buildQueryRecord(run.ID, pq)
		statements += len(stmts)
		if err := store.SaveQuery(rec, stmts); err != nil {
			_ = store.CompleteIndexRun(run.ID, state.RunStatusFailed, 0, 0, 0, err.Error())
			return err
		}
	}

	findings := make([]*state.FindingRecord, 0, len(diags))
	for _, d := range diags {
		findings = append(findings, &state.FindingRecord{
			RunID:     run.ID,
			RuleID:    d.RuleID,
			Severity:  d.Severity.String(),
			Message:   d.Message,
			FilePath:  d.File,
			Line:      d.Pos.Line,
			Column:    d.Pos.Column,
			StmtIndex: d.Stmt,
		})
	}
	if err := store.SaveFindings(findings); err != nil {
		_ = store.CompleteIndexRun(run.ID, state.RunStatusFailed, 0, 0, 0, err.Error())
		return err
	}

	if err := store.CompleteIndexRun(run.ID, state.RunStatusCompleted,
		len(parsed), statements, len(findings), ""); err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{
			"run_id":      run.ID,
			"fingerprint": m.Fingerprint,
			"queries":     len(parsed),
			"statements":  statements,
			"findings":    len(findings),
		})
	}

	r.Success("Indexed %d queries (%d statements, %d findings)", len(parsed), statements, len(findings))
	r.Muted("run %s, fingerprint %s", run.ID, m.Fingerprint[:12])
	return nil
}

func buildQueryRecord(runID string, pq corpus.ParsedQuery) (*state.QueryRecord, []*state.StatementRecord) {
	q := pq.Query
	sum := sha256.Sum256([]byte(q.Raw))
	rec := &state.QueryRecord{
		RunID:          runID,
		Split:          string(q.Split),
		Category:       q.Category,
		Difficulty:     string(q.Difficulty),
		QueryID:        q.ID,
		FilePath:       q.FilePath,
		PathValid:      q.Valid,
		StatementCount: len(q.Statements),
		Bytes:          q.Bytes,
		SHA256:         hex.EncodeToString(sum[:]),
	}

	stmts := make([]*state.StatementRecord, 0, len(q.Statements))
	for i, st := range q.Statements {
		sr := &state.StatementRecord{
			Idx:  st.Index,
			Line: st.Line,
			SQL:  st.SQL,
		}
		if i < len(pq.Statements) && pq.Statements[i] != nil {
			parsed := pq.Statements[i]
			sr.TableCount = len(parsed.Tables)
			sr.JoinCount = len(parsed.Joins)
			sr.FunctionCount = len(parsed.Functions)
		}
		stmts = append(stmts, sr)
	}
	return rec, stmts
}
