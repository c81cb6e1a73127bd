package commands

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/pkg/lint"
	_ "github.com/clinbench-io/clinbench/pkg/lint/corpus/rules" // register corpus rules
	_ "github.com/clinbench-io/clinbench/pkg/lint/sql/rules"    // register SQL rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Path     string   // corpus-relative path prefix filter
	Format   string   // output format override: text, markdown, json
	Disable  []string // rule IDs to disable
	Severity string   // minimum severity: error, warning, info, hint
	Rules    []string // run only specific rules
	Watch    bool     // re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Run lint rules on the corpus",
		Long: `Analyze the corpus for layout and query quality issues.

Statement-level rules check each SQL file for patterns that make a
benchmark query fragile (SELECT *, nondeterministic functions, raw
division, joins without conditions). Corpus-level rules check the
directory layout, id consistency, and tier distribution. Rules can be
configured in clinbench.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the whole corpus
  clinbench lint

  # Lint one split
  clinbench lint splits/test

  # Output as JSON
  clinbench lint --format json

  # Disable specific rules
  clinbench lint --disable QR04,CB08

  # Only report errors
  clinbench lint --severity error

  # Re-lint whenever corpus files change
  clinbench lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when corpus files change")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	if opts.Watch {
		return watchLint(cmd.Context(), cmdCtx, r, opts)
	}

	diags, err := lintCorpus(cmd.Context(), cmdCtx, opts)
	if err != nil {
		return err
	}

	renderLintResults(r, diags)
	if failsBuild(cmdCtx, diags) {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// lintCorpus discovers, parses, and lints the corpus, returning diagnostics
// filtered by the severity threshold and sorted by file.
func lintCorpus(ctx context.Context, cmdCtx *CommandContext, opts *LintOptions) ([]lint.Diagnostic, error) {
	crp, err := cmdCtx.DiscoverCorpus(ctx)
	if err != nil {
		return nil, err
	}
	parsed := corpus.ParseAll(crp)

	lintCfg := buildLintConfig(cmdCtx.Cfg, opts.Disable, opts.Rules)
	analyzer := lint.NewAnalyzer(lintCfg)

	var diags []lint.Diagnostic
	for _, pq := range parsed {
		if opts.Path != "" && !hasPathPrefix(pq.Info.FilePath, opts.Path) {
			continue
		}
		for i, stmt := range pq.Statements {
			if stmt == nil {
				continue
			}
			found := analyzer.AnalyzeStatement(stmt, pq.Info)
			for j := range found {
				found[j].Stmt = i
			}
			diags = append(diags, found...)
		}
	}

	// Corpus-level rules always see the full corpus; a path filter only
	// narrows statement findings.
	lctx := corpus.NewLintContext(parsed, cmdCtx.Cfg.Categories)
	corpusDiags := analyzer.AnalyzeCorpus(lctx)
	if opts.Path != "" {
		filtered := corpusDiags[:0]
		for _, d := range corpusDiags {
			if hasPathPrefix(d.File, opts.Path) {
				filtered = append(filtered, d)
			}
		}
		corpusDiags = filtered
	}
	diags = append(diags, corpusDiags...)

	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		threshold = lint.SeverityHint
	}
	diags = lint.FilterBySeverity(diags, threshold)

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Pos.Line != diags[j].Pos.Line {
			return diags[i].Pos.Line < diags[j].Pos.Line
		}
		return diags[i].RuleID < diags[j].RuleID
	})
	return diags, nil
}

func hasPathPrefix(path, prefix string) bool {
	prefix = strings.Trim(filepath.ToSlash(filepath.Clean(prefix)), "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// failsBuild reports whether any diagnostic reaches the configured fail_on
// threshold.
func failsBuild(cmdCtx *CommandContext, diags []lint.Diagnostic) bool {
	failOn := lint.SeverityError
	if cmdCtx.Cfg.Lint != nil {
		if s, ok := lint.ParseSeverity(cmdCtx.Cfg.Lint.FailOn); ok {
			failOn = s
		}
	}
	for _, d := range diags {
		if d.Severity <= failOn {
			return true
		}
	}
	return false
}

// LintOutput is the JSON output for the lint command.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary counts diagnostics by severity.
type LintSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
}

// LintFileResult groups diagnostics of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintDiagnostic is one finding in JSON form.
type LintDiagnostic struct {
	RuleID    string `json:"rule_id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	Statement int    `json:"statement"`
}

func renderLintResults(r *output.Renderer, diags []lint.Diagnostic) {
	if len(diags) == 0 {
		if r.EffectiveMode() == output.ModeJSON {
			_ = r.JSON(LintOutput{Files: []LintFileResult{}})
			return
		}
		r.Success("No lint issues found")
		return
	}

	summary := LintSummary{Total: len(diags)}
	for _, d := range diags {
		switch d.Severity {
		case lint.SeverityError:
			summary.Errors++
		case lint.SeverityWarning:
			summary.Warnings++
		case lint.SeverityInfo:
			summary.Infos++
		case lint.SeverityHint:
			summary.Hints++
		}
	}

	byFile := groupByFile(diags)

	if r.EffectiveMode() == output.ModeJSON {
		out := LintOutput{Summary: summary}
		for _, fr := range byFile {
			fileResult := LintFileResult{Path: fr.path}
			for _, d := range fr.diags {
				fileResult.Diagnostics = append(fileResult.Diagnostics, LintDiagnostic{
					RuleID:    d.RuleID,
					Severity:  d.Severity.String(),
					Message:   d.Message,
					Line:      d.Pos.Line,
					Column:    d.Pos.Column,
					Statement: d.Stmt,
				})
			}
			out.Files = append(out.Files, fileResult)
		}
		_ = r.JSON(out)
		return
	}

	for _, fr := range byFile {
		r.Println(r.Styles().QueryPath.Render(fr.path))
		for _, d := range fr.diags {
			loc := ""
			if d.Pos.Line > 0 {
				loc = fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityLabel(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	r.Printf("%d issues (%d errors, %d warnings, %d infos, %d hints)\n",
		summary.Total, summary.Errors, summary.Warnings, summary.Infos, summary.Hints)
}

type fileDiags struct {
	path  string
	diags []lint.Diagnostic
}

func groupByFile(diags []lint.Diagnostic) []fileDiags {
	idx := make(map[string]int)
	var out []fileDiags
	for _, d := range diags {
		file := d.File
		if file == "" {
			file = "(corpus)"
		}
		i, ok := idx[file]
		if !ok {
			i = len(out)
			idx[file] = i
			out = append(out, fileDiags{path: file})
		}
		out[i].diags = append(out[i].diags, d)
	}
	return out
}

func severityLabel(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// watchLint re-lints whenever files under splits/ change. It blocks until
// the context is cancelled.
func watchLint(ctx context.Context, cmdCtx *CommandContext, r *output.Renderer, opts *LintOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	splitsRoot := filepath.Join(cmdCtx.Cfg.CorpusRoot, "splits")
	addDirs := func() error {
		return filepath.WalkDir(splitsRoot, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(p)
			}
			return nil
		})
	}
	if err := addDirs(); err != nil {
		return fmt.Errorf("failed to watch corpus: %w", err)
	}

	runOnce := func() {
		diags, err := lintCorpus(ctx, cmdCtx, opts)
		if err != nil {
			r.Error("lint failed: %v", err)
			return
		}
		renderLintResults(r, diags)
	}

	runOnce()
	r.Muted("watching %s for changes", splitsRoot)

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need explicit watches.
				_ = addDirs()
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		case <-pending:
			runOnce()
		}
	}
}
