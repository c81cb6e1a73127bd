package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Host string
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the corpus over a read-only HTTP API",
		Long: `Start an HTTP server exposing the corpus: summary counts, manifest
entries with filtering, and full query bodies. The server is read-only and
intended for local browsing or wiring into evaluation harnesses.`,
		Example: `  # Serve on the default address (127.0.0.1:8675)
  clinbench serve

  # Bind all interfaces on a custom port
  clinbench serve --host 0.0.0.0 --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (overrides config)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)

	crp, err := cmdCtx.DiscoverCorpus(cmd.Context())
	if err != nil {
		return err
	}

	sc := cmdCtx.Cfg.GetServeConfig()
	if opts.Host != "" {
		sc.Host = opts.Host
	}
	if opts.Port != 0 {
		sc.Port = opts.Port
	}

	srv := server.NewServer(server.Config{
		Corpus: crp,
		Host:   sc.Host,
		Port:   sc.Port,
		Logger: cmdCtx.Logger,
	})
	cmdCtx.Renderer.StatusLine("serving", fmt.Sprintf("http://%s:%d (Ctrl-C to stop)", sc.Host, sc.Port), true)
	return srv.Serve(cmd.Context())
}
