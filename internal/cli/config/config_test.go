package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "error", cfg.Lint.FailOn)
	assert.Equal(t, 8675, cfg.GetServeConfig().Port)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	yaml := `
corpus_root: corpus
output: json
categories:
  - Labs
  - Meds
lint:
  disabled:
    - QR04
  fail_on: warning
serve:
  port: 9000
`
	cfgFile := filepath.Join(dir, "clinbench.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0o644))

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "corpus"), cfg.CorpusRoot)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, []string{"Labs", "Meds"}, cfg.Categories)
	assert.Equal(t, []string{"QR04"}, cfg.Lint.Disabled)
	assert.Equal(t, "warning", cfg.Lint.FailOn)
	assert.Equal(t, 9000, cfg.GetServeConfig().Port)
	assert.Equal(t, cfgFile, GetConfigFileUsed())
}

func TestLoadConfigUpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "clinbench.yaml"), []byte("output: markdown\n"), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("CLINBENCH_OUTPUT", "json")
	t.Setenv("CLINBENCH_LINT__FAIL_ON", "hint")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "hint", cfg.Lint.FailOn)
}

func TestLoadConfigFlagOverride(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CLINBENCH_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "auto", "")
	flags.String("corpus-root", "", "")
	flags.String("state", "", "")
	require.NoError(t, flags.Parse([]string{"--output", "text", "--corpus-root", "mycorpus", "--state", ":memory:"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	// Flags beat env vars.
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, ":memory:", cfg.StatePath)

	abs, err := filepath.Abs("mycorpus")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.CorpusRoot)
}

func TestResolvePathRelativeTo(t *testing.T) {
	assert.Equal(t, "", resolvePathRelativeTo("", "/base"))
	assert.Equal(t, "/abs/path", resolvePathRelativeTo("/abs/path", "/base"))
	assert.Equal(t, filepath.Join("/base", "rel"), resolvePathRelativeTo("rel", "/base"))
}
