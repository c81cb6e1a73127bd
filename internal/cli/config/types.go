// Package config provides configuration management for the clinbench CLI.
//
// Configuration is layered: built-in defaults, then a clinbench.yaml file,
// then CLINBENCH_* environment variables, then command-line flags.
package config

// RuleOptions holds per-rule tuning knobs, keyed by option name.
type RuleOptions map[string]any

// LintConfig holds lint behavior configuration.
type LintConfig struct {
	// Disabled lists rule IDs to skip entirely.
	Disabled []string `koanf:"disabled"`
	// Severity overrides per-rule severity: rule ID -> error|warning|info|hint.
	Severity map[string]string `koanf:"severity"`
	// Rules holds per-rule options, e.g. CB08 min_ratio.
	Rules map[string]RuleOptions `koanf:"rules"`
	// FailOn is the severity threshold that makes lint exit nonzero.
	FailOn string `koanf:"fail_on"`
}

// ServeConfig holds configuration for the corpus API server.
type ServeConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// GetServeConfig returns the serve config with defaults applied for any
// unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return &ServeConfig{Host: DefaultServeHost, Port: DefaultServePort}
	}
	s := c.Serve
	if s.Host == "" {
		s.Host = DefaultServeHost
	}
	if s.Port == 0 {
		s.Port = DefaultServePort
	}
	return s
}

// Config holds all CLI configuration options.
type Config struct {
	CorpusRoot   string       `koanf:"corpus_root"`
	StatePath    string       `koanf:"state_path"`
	OutputFormat string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	Categories   []string     `koanf:"categories"` // expected category names; empty disables the category check
	Lint         *LintConfig  `koanf:"lint"`
	Serve        *ServeConfig `koanf:"serve"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultCorpusRoot = "."
	DefaultStateFile  = ".clinbench/state.db"
	DefaultOutput     = "auto" // TTY=text, non-TTY=markdown
	DefaultFailOn     = "error"
	DefaultServeHost  = "127.0.0.1"
	DefaultServePort  = 8675
)
