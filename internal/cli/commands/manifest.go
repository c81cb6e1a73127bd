package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/manifest"
)

// ManifestOptions holds options for the manifest command.
type ManifestOptions struct {
	Format string
	Output string
}

// NewManifestCommand creates the manifest command.
func NewManifestCommand() *cobra.Command {
	opts := &ManifestOptions{}
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write a corpus manifest",
		Long: `Generate a deterministic manifest of the corpus: one entry per valid
query file with its coordinates, statement count, size, and SHA-256 digest,
plus per-split summaries and a corpus fingerprint.`,
		Example: `  # JSON manifest to stdout
  clinbench manifest

  # YAML manifest to a file
  clinbench manifest --format yaml --out manifest.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "Manifest format (json, yaml)")
	cmd.Flags().StringVar(&opts.Output, "out", "", "Write to file instead of stdout")
	return cmd
}

func runManifest(cmd *cobra.Command, opts *ManifestOptions) error {
	cmdCtx := NewCommandContext(cmd)

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}
	m := manifest.Build(crp)

	var w io.Writer = cmdCtx.Renderer.Writer()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Output, err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case "json":
		err = m.WriteJSON(w)
	case "yaml":
		err = m.WriteYAML(w)
	default:
		return fmt.Errorf("unknown manifest format %q (expected json or yaml)", opts.Format)
	}
	if err != nil {
		return err
	}

	if opts.Output != "" {
		cmdCtx.Renderer.Success("Wrote %s manifest for %d queries to %s", opts.Format, m.Queries, opts.Output)
	}
	return nil
}
