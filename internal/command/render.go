package command

import (
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"
)

// styles renders plan output. When disabled every method returns its input.
type styles struct {
	enabled bool
	header  lipgloss.Style
	action  lipgloss.Style
	state   lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
}

// newStyles decides on styling for w. mode is auto, always or never; auto
// styles terminals only, and honours NO_COLOR.
func newStyles(w io.Writer, mode string) styles {
	s := styles{
		header:  lipgloss.NewStyle().Bold(true),
		action:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		state:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
	switch strings.ToLower(mode) {
	case "always":
		s.enabled = true
	case "never":
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); !ok {
			s.enabled = isTerminal(w)
		}
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.enabled || text == "" {
		return text
	}
	return style.Render(text)
}

func (s styles) Header(text string) string  { return s.render(s.header, text) }
func (s styles) Action(text string) string  { return s.render(s.action, text) }
func (s styles) State(text string) string   { return s.render(s.state, text) }
func (s styles) Muted(text string) string   { return s.render(s.muted, text) }
func (s styles) Failure(text string) string { return s.render(s.failure, text) }
