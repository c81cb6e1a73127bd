package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/pkg/lint"
	_ "github.com/clinbench-io/clinbench/pkg/lint/corpus/rules" // register corpus rules
	_ "github.com/clinbench-io/clinbench/pkg/lint/sql/rules"    // register SQL rules
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a comprehensive corpus health check",
		Long: `Analyze the corpus and report its overall health.

The doctor command runs every lint rule and produces:
- Corpus summary (queries, statements, splits, categories)
- Health checks grouped by rule group
- Health score (0-100)
- Actionable recommendations`,
		Example: `  # Run health check
  clinbench doctor

  # Output as JSON
  clinbench doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         CorpusSummary `json:"summary"`
	HealthChecks    []HealthCheck `json:"health_checks"`
	Score           int           `json:"score"`
	Recommendations []string      `json:"recommendations"`
	IssueCount      int           `json:"issue_count"`
}

// CorpusSummary contains corpus-level statistics.
type CorpusSummary struct {
	Queries      int `json:"queries"`
	Statements   int `json:"statements"`
	InvalidPaths int `json:"invalid_paths"`
	Splits       int `json:"splits"`
	Categories   int `json:"categories"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}
	if len(crp.Queries) == 0 {
		r.Warning("No queries found in corpus")
		return nil
	}

	diags, err := lintCorpus(cmd.Context(), cmdCtx, &LintOptions{Severity: "hint"})
	if err != nil {
		return err
	}

	out := buildDoctorOutput(crp, diags)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, out)
	default:
		return renderDoctorText(r, out)
	}
}

func buildDoctorOutput(crp *corpus.Corpus, diags []lint.Diagnostic) *DoctorOutput {
	stats := crp.Counts()
	summary := CorpusSummary{
		Queries:      stats.Total,
		Statements:   stats.Statements,
		InvalidPaths: stats.Invalid,
		Splits:       len(stats.BySplit),
		Categories:   len(stats.ByCategory),
	}

	diagsByRule := make(map[string][]lint.Diagnostic)
	for _, d := range diags {
		diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], d)
	}

	rules := lint.AllRules()
	healthChecks := make([]HealthCheck, 0, len(rules))
	for _, rule := range rules {
		ruleDiags := diagsByRule[rule.ID]
		status := "pass"
		if len(ruleDiags) > 0 {
			if rule.DefaultSeverity == lint.SeverityError.String() {
				status = "error"
			} else {
				status = "warn"
			}
		}

		details := make([]string, 0, len(ruleDiags))
		for _, d := range ruleDiags {
			details = append(details, d.Message)
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(ruleDiags),
			Details:    details,
		})
	}

	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks, stats.Total),
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      len(diags),
	}
}

// calculateHealthScore computes a health score from 0-100. Larger corpora
// absorb individual findings with a smaller penalty.
func calculateHealthScore(checks []HealthCheck, queryCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if queryCount > 50 {
		basePenalty = 2.0
	}
	if queryCount > 200 {
		basePenalty = 0.5
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CB01":
		return "Move misplaced files into splits/{split}/{category}/{tier}_level_queries/{id}/sql_{id}.sql"
	case "CB02":
		return "Rename query files so sql_{id}.sql matches the directory id"
	case "CB03":
		return "Renumber duplicate query ids within their split/category/tier"
	case "CB04":
		return "Fill or remove empty query files"
	case "CB05":
		return "Fix category directory names or add them to the categories list in clinbench.yaml"
	case "CB06":
		return "Use easy, medium, or hard for difficulty directories"
	case "CB07":
		return "Fix the SQL syntax errors reported by the parser"
	case "CB08":
		return "Author more queries for thin difficulty tiers"
	case "CB09":
		return "Remove stray files from query directories"
	case "QR01":
		return "Terminate every statement with a semicolon"
	case "QR02":
		return "Replace SELECT * with explicit column selection"
	case "QR03":
		return "Reference tables by fully-qualified backtick-quoted names"
	case "QR04":
		return "Use SAFE_DIVIDE instead of the raw division operator"
	case "QR05":
		return "Anchor time-dependent predicates to fixed dates"
	case "QR06":
		return "Add explicit join conditions to prevent Cartesian products"
	case "QR07":
		return "Rewrite NOT IN (SELECT ...) as NOT EXISTS or a LEFT JOIN anti-pattern"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Corpus Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Corpus Summary"))
	r.Printf("   Queries: %d | Statements: %d | Invalid paths: %d\n",
		out.Summary.Queries, out.Summary.Statements, out.Summary.InvalidPaths)
	r.Printf("   Splits: %d | Categories: %d\n", out.Summary.Splits, out.Summary.Categories)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.Render("ok")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.Render("x")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Corpus Health Report")
	r.Println("")

	r.Println("## Corpus Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Queries", fmt.Sprintf("%d", out.Summary.Queries)))
	r.Println(output.FormatKeyValue("Statements", fmt.Sprintf("%d", out.Summary.Statements)))
	r.Println(output.FormatKeyValue("Invalid paths", fmt.Sprintf("%d", out.Summary.InvalidPaths)))
	r.Println(output.FormatKeyValue("Splits", fmt.Sprintf("%d", out.Summary.Splits)))
	r.Println(output.FormatKeyValue("Categories", fmt.Sprintf("%d", out.Summary.Categories)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")
	r.Println("| Rule | Name | Status | Issues |")
	r.Println("|------|------|--------|-------:|")
	for _, check := range out.HealthChecks {
		r.Printf("| %s | %s | %s | %d |\n", check.RuleID, check.Name, check.Status, check.IssueCount)
	}
	r.Println("")

	r.Printf("**Health Score**: %d/100\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
	}
	return nil
}
