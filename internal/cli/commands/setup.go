// Package commands implements the clinbench subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinbench-io/clinbench/internal/cli/config"
	"github.com/clinbench-io/clinbench/internal/cli/output"
	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/internal/state"
	"github.com/clinbench-io/clinbench/pkg/lint"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// DiscoverCorpus walks the configured corpus root.
func (c *CommandContext) DiscoverCorpus(ctx context.Context) (*corpus.Corpus, error) {
	c.Logger.Debug("discovering corpus", "root", c.Cfg.CorpusRoot)
	crp, err := corpus.Discover(ctx, c.Cfg.CorpusRoot, corpus.DiscoverOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to discover corpus: %w", err)
	}
	c.Logger.Debug("corpus discovered", "queries", len(crp.Queries))
	return crp, nil
}

// OpenStore opens the index state database, creating its directory and
// running migrations. The returned cleanup must be called.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, func(), error) {
	if dir := filepath.Dir(c.Cfg.StatePath); c.Cfg.StatePath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// getConfig returns the current configuration, falling back to environment
// variables when no config has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		CorpusRoot:   getEnvOrDefault("CLINBENCH_CORPUS_ROOT", config.DefaultCorpusRoot),
		StatePath:    getEnvOrDefault("CLINBENCH_STATE_PATH", config.DefaultStateFile),
		OutputFormat: os.Getenv("CLINBENCH_OUTPUT"),
		Verbose:      os.Getenv("CLINBENCH_VERBOSE") == "true",
		Lint:         &config.LintConfig{FailOn: config.DefaultFailOn},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// buildLintConfig layers project lint config with CLI overrides.
func buildLintConfig(cfg *config.Config, disable, only []string) *lint.Config {
	lintCfg := lint.NewConfig()

	// Project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		for _, id := range cfg.Lint.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range cfg.Lint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(id, s)
			}
		}
		for id, ruleOpts := range cfg.Lint.Rules {
			lintCfg.SetRuleOptions(id, ruleOpts)
		}
	}

	// CLI overrides (higher precedence)
	for _, id := range disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(only) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range only {
			enabledSet[strings.TrimSpace(id)] = true
		}
		for _, info := range lint.AllRules() {
			if !enabledSet[info.ID] {
				lintCfg.Disable(info.ID)
			}
		}
	}

	return lintCfg
}
