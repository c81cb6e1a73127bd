// Package corpus holds the data-driven rule definition used by corpus-level
// lint rules (layout, taxonomy, duplication). Rules live in the rules
// subpackage and register themselves from init functions.
package corpus

import (
	"github.com/clinbench-io/clinbench/pkg/lint"
)

// CheckFunc analyzes the whole corpus and returns diagnostics.
type CheckFunc func(ctx lint.CorpusContext, opts map[string]any) []lint.Diagnostic

// RuleDef is a data-driven corpus rule definition.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    lint.Severity
	Check       CheckFunc

	Rationale string
	Fix       string
}

// Register wraps the definition and adds it to the global registry.
func Register(def RuleDef) {
	lint.RegisterCorpusRule(&wrapped{def})
}

type wrapped struct {
	def RuleDef
}

func (w *wrapped) ID() string                     { return w.def.ID }
func (w *wrapped) Name() string                   { return w.def.Name }
func (w *wrapped) Group() string                  { return w.def.Group }
func (w *wrapped) Description() string            { return w.def.Description }
func (w *wrapped) DefaultSeverity() lint.Severity { return w.def.Severity }
func (w *wrapped) Rationale() string              { return w.def.Rationale }
func (w *wrapped) Fix() string                    { return w.def.Fix }

func (w *wrapped) CheckCorpus(ctx lint.CorpusContext, opts map[string]any) []lint.Diagnostic {
	return w.def.Check(ctx, opts)
}
