package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbench-io/clinbench/pkg/parser"
)

// fakeRule is a minimal SQL rule for exercising the analyzer without
// depending on the real rule packages.
type fakeRule struct {
	id    string
	sev   Severity
	diags []Diagnostic
}

func (r *fakeRule) ID() string                { return r.id }
func (r *fakeRule) Name() string              { return "test." + r.id }
func (r *fakeRule) Group() string             { return "test" }
func (r *fakeRule) Description() string       { return "test rule" }
func (r *fakeRule) DefaultSeverity() Severity { return r.sev }
func (r *fakeRule) Rationale() string         { return "" }
func (r *fakeRule) Fix() string               { return "" }

var _ SQLRule = (*fakeRule)(nil)

func (r *fakeRule) CheckSQL(_ *parser.Statement, _ QueryInfo, _ map[string]any) []Diagnostic {
	return r.diags
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "hint", SeverityHint.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
		ok    bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"warn", SeverityWarning, true},
		{" hint ", SeverityHint, true},
		{"info", SeverityInfo, true},
		{"critical", SeverityWarning, false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestSeverityOrdering(t *testing.T) {
	// Lower values are more severe; threshold filtering relies on it.
	assert.Less(t, SeverityError, SeverityWarning)
	assert.Less(t, SeverityWarning, SeverityInfo)
	assert.Less(t, SeverityInfo, SeverityHint)
}

func TestConfigDisableEnable(t *testing.T) {
	cfg := NewConfig()
	assert.False(t, cfg.IsDisabled("QR02"))

	cfg.Disable("QR02")
	assert.True(t, cfg.IsDisabled("QR02"))

	cfg.Enable("QR02")
	assert.False(t, cfg.IsDisabled("QR02"))
}

func TestConfigSeverityOverride(t *testing.T) {
	cfg := NewConfig()
	rule := &fakeRule{id: "TT01", sev: SeverityWarning}

	assert.Equal(t, SeverityWarning, cfg.SeverityFor(rule))

	cfg.SetSeverity("TT01", SeverityError)
	assert.Equal(t, SeverityError, cfg.SeverityFor(rule))
}

func TestConfigRuleOptions(t *testing.T) {
	cfg := NewConfig()
	assert.Nil(t, cfg.OptionsFor("TT01"))

	cfg.SetRuleOptions("TT01", map[string]any{"min_ratio": 0.25})
	opts := cfg.OptionsFor("TT01")
	require.NotNil(t, opts)
	assert.Equal(t, 0.25, opts["min_ratio"])
}

func TestAnalyzerAppliesOverrides(t *testing.T) {
	rule := &fakeRule{
		id:  "TT02",
		sev: SeverityHint,
		diags: []Diagnostic{
			{RuleID: "TT02", Message: "finding"},
		},
	}
	RegisterSQLRule(rule)

	cfg := NewConfig()
	cfg.SetSeverity("TT02", SeverityError)
	a := NewAnalyzer(cfg)

	stmt := &parser.Statement{}
	var got []Diagnostic
	for _, d := range a.AnalyzeStatement(stmt, QueryInfo{}) {
		if d.RuleID == "TT02" {
			got = append(got, d)
		}
	}
	require.Len(t, got, 1)
	assert.Equal(t, SeverityError, got[0].Severity)
}

func TestAnalyzerSkipsDisabledRules(t *testing.T) {
	rule := &fakeRule{
		id:  "TT03",
		sev: SeverityError,
		diags: []Diagnostic{
			{RuleID: "TT03", Message: "finding"},
		},
	}
	RegisterSQLRule(rule)

	cfg := NewConfig()
	cfg.Disable("TT03")
	a := NewAnalyzer(cfg)

	for _, d := range a.AnalyzeStatement(&parser.Statement{}, QueryInfo{}) {
		assert.NotEqual(t, "TT03", d.RuleID)
	}
}

func TestFilterBySeverity(t *testing.T) {
	diags := []Diagnostic{
		{RuleID: "A", Severity: SeverityError},
		{RuleID: "B", Severity: SeverityWarning},
		{RuleID: "C", Severity: SeverityInfo},
		{RuleID: "D", Severity: SeverityHint},
	}

	assert.Len(t, FilterBySeverity(diags, SeverityError), 1)
	assert.Len(t, FilterBySeverity(diags, SeverityWarning), 2)
	assert.Len(t, FilterBySeverity(diags, SeverityHint), 4)
}

func TestRegistryLookup(t *testing.T) {
	rule := &fakeRule{id: "TT04", sev: SeverityInfo}
	RegisterSQLRule(rule)

	got, ok := GetRuleByID("TT04")
	require.True(t, ok)
	assert.Equal(t, "TT04", got.ID())

	_, ok = GetRuleByID("TT99")
	assert.False(t, ok)
}

func TestRuleInfoType(t *testing.T) {
	info := GetRuleInfo(&fakeRule{id: "TT05", sev: SeverityInfo})
	assert.Equal(t, "sql", info.Type)
	assert.Equal(t, "info", info.DefaultSeverity)
}
