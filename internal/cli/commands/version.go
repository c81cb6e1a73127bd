package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/output"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]string{
					"version":    version,
					"build_date": buildDate,
					"git_commit": gitCommit,
					"go_version": runtime.Version(),
					"platform":   runtime.GOOS + "/" + runtime.GOARCH,
				})
			}

			r.Printf("clinbench %s\n", version)
			r.Muted("build date: %s", buildDate)
			r.Muted("git commit: %s", gitCommit)
			r.Muted("go version: %s", runtime.Version())
			return nil
		},
	}
}
