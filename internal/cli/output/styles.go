package output

import "github.com/charmbracelet/lipgloss"

// StyleSet holds the lipgloss styles commands render with. When color is
// disabled every style is a no-op passthrough.
type StyleSet struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style
	QueryPath     lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyleSet(color bool) *StyleSet {
	if !color {
		plain := lipgloss.NewStyle()
		return &StyleSet{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain, Info: plain,
			QueryPath: plain, StatusSuccess: plain, StatusFailed: plain,
		}
	}
	return &StyleSet{
		Header1:       lipgloss.NewStyle().Bold(true).Underline(true),
		Header2:       lipgloss.NewStyle().Bold(true),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		QueryPath:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}
