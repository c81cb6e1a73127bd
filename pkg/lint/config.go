package lint

// Config controls which rules run and with what severity.
type Config struct {
	disabled   map[string]bool
	severities map[string]Severity
	options    map[string]map[string]any
}

// NewConfig returns an empty Config: all rules enabled at their default
// severities.
func NewConfig() *Config {
	return &Config{
		disabled:   make(map[string]bool),
		severities: make(map[string]Severity),
		options:    make(map[string]map[string]any),
	}
}

// Disable turns a rule off by ID.
func (c *Config) Disable(id string) {
	c.disabled[id] = true
}

// Enable turns a previously disabled rule back on.
func (c *Config) Enable(id string) {
	delete(c.disabled, id)
}

// IsDisabled reports whether the rule is disabled.
func (c *Config) IsDisabled(id string) bool {
	return c.disabled[id]
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(id string, s Severity) {
	c.severities[id] = s
}

// SeverityFor returns the effective severity for a rule.
func (c *Config) SeverityFor(r Rule) Severity {
	if s, ok := c.severities[r.ID()]; ok {
		return s
	}
	return r.DefaultSeverity()
}

// SetRuleOptions sets rule-specific options.
func (c *Config) SetRuleOptions(id string, opts map[string]any) {
	c.options[id] = opts
}

// OptionsFor returns rule-specific options, nil when none are set.
func (c *Config) OptionsFor(id string) map[string]any {
	return c.options[id]
}
