// Package output renders command results as colored terminal text,
// markdown, or JSON depending on the requested mode and whether stdout is
// a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *StyleSet
}

// NewRenderer creates a renderer. Mode defaults to auto, which picks text
// on a terminal and markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = termenv.NewOutput(f).EnvColorProfile() != termenv.Ascii &&
			isTerminal(f)
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyleSet(r.EffectiveMode() == ModeText && isTTY)
	return r
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// EffectiveMode resolves ModeAuto to a concrete mode.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// Styles returns the style set for the effective mode.
func (r *Renderer) Styles() *StyleSet { return r.styles }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// JSON writes the value as indented JSON, regardless of mode.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a section heading appropriate for the mode.
func (r *Renderer) Header(text string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		fmt.Fprintf(r.out, "## %s\n\n", text)
	default:
		fmt.Fprintln(r.out, r.styles.Header1.Render(text))
	}
}

// Success writes a success line.
func (r *Renderer) Success(format string, a ...any) {
	r.Println(r.styles.Success.Render(fmt.Sprintf(format, a...)))
}

// Warning writes a warning line.
func (r *Renderer) Warning(format string, a ...any) {
	r.Println(r.styles.Warning.Render(fmt.Sprintf(format, a...)))
}

// Error writes an error line to stderr.
func (r *Renderer) Error(format string, a ...any) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render(fmt.Sprintf(format, a...)))
}

// Muted writes a de-emphasized line.
func (r *Renderer) Muted(format string, a ...any) {
	r.Println(r.styles.Muted.Render(fmt.Sprintf(format, a...)))
}

// StatusLine writes a "label: value" pair with a status style.
func (r *Renderer) StatusLine(label, value string, ok bool) {
	style := r.styles.StatusSuccess
	if !ok {
		style = r.styles.StatusFailed
	}
	r.Printf("%s %s\n", r.styles.Bold.Render(label+":"), style.Render(value))
}
