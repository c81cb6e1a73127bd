package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/pkg/lint"

	_ "github.com/clinbench-io/clinbench/pkg/lint/corpus/rules"
	_ "github.com/clinbench-io/clinbench/pkg/lint/sql/rules"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "explain <rule-id>",
		Short: "Explain a single rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesExplain(cmd, args[0])
		},
	})
	return cmd
}

func runRulesList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	rules := lint.AllRules()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rules)
	case output.ModeMarkdown:
		r.Header("Lint Rules")
		r.Println("| ID | Name | Type | Severity | Description |")
		r.Println("|----|------|------|----------|-------------|")
		for _, info := range rules {
			r.Printf("| %s | %s | %s | %s | %s |\n",
				info.ID, info.Name, info.Type, info.DefaultSeverity, info.Description)
		}
		return nil
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Severity", "Description"})
		for _, info := range rules {
			t.AppendRow(table.Row{info.ID, info.Name, info.Type, info.DefaultSeverity, info.Description})
		}
		t.Render()
		return nil
	}
}

func runRulesExplain(cmd *cobra.Command, id string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	rule, ok := lint.GetRuleByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("unknown rule %q", id)
	}
	info := lint.GetRuleInfo(rule)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	r.Header(fmt.Sprintf("%s (%s)", info.ID, info.Name))
	r.Println(output.FormatKeyValue("Type", info.Type))
	r.Println(output.FormatKeyValue("Group", info.Group))
	r.Println(output.FormatKeyValue("Default severity", info.DefaultSeverity))
	r.Println("")
	r.Println(info.Description)
	if info.Rationale != "" {
		r.Println("")
		r.Println(r.Styles().Bold.Render("Why it matters"))
		r.Println(info.Rationale)
	}
	if info.Fix != "" {
		r.Println("")
		r.Println(r.Styles().Bold.Render("How to fix"))
		r.Println(info.Fix)
	}
	return nil
}
