package lint

import (
	"github.com/clinbench-io/clinbench/pkg/parser"
)

// Analyzer runs registered rules against statements and corpora, applying
// the Config's disabled set and severity overrides.
type Analyzer struct {
	cfg *Config
}

// NewAnalyzer creates an Analyzer. A nil cfg means defaults.
func NewAnalyzer(cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Analyzer{cfg: cfg}
}

// AnalyzeStatement runs all enabled SQL rules against one statement.
func (a *Analyzer) AnalyzeStatement(stmt *parser.Statement, q QueryInfo) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range GetAllSQLRules() {
		if a.cfg.IsDisabled(rule.ID()) {
			continue
		}
		found := rule.CheckSQL(stmt, q, a.cfg.OptionsFor(rule.ID()))
		diags = append(diags, a.applyOverrides(rule, found)...)
	}
	return diags
}

// AnalyzeCorpus runs all enabled corpus rules against the corpus context.
func (a *Analyzer) AnalyzeCorpus(ctx CorpusContext) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range GetAllCorpusRules() {
		if a.cfg.IsDisabled(rule.ID()) {
			continue
		}
		found := rule.CheckCorpus(ctx, a.cfg.OptionsFor(rule.ID()))
		diags = append(diags, a.applyOverrides(rule, found)...)
	}
	return diags
}

func (a *Analyzer) applyOverrides(rule Rule, diags []Diagnostic) []Diagnostic {
	sev := a.cfg.SeverityFor(rule)
	for i := range diags {
		diags[i].Severity = sev
	}
	return diags
}

// FilterBySeverity keeps diagnostics at or above the threshold.
func FilterBySeverity(diags []Diagnostic, threshold Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}
