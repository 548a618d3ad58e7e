package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Semantic colors.
var (
	colorError  = lipgloss.Color("#ef4444") // red-500
	colorPass   = lipgloss.Color("#10b981") // green-500
	colorDim    = lipgloss.Color("#6b7280") // gray-500
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
)

// Styles renders check output. The zero value renders plain text.
type Styles struct {
	enabled bool

	Path     lipgloss.Style
	Position lipgloss.Style
	Error    lipgloss.Style
	Pass     lipgloss.Style
	Summary  lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		return Styles{}
	}

	return Styles{
		enabled:  true,
		Path:     lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Position: lipgloss.NewStyle().Foreground(colorDim),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Pass:     lipgloss.NewStyle().Foreground(colorPass),
		Summary:  lipgloss.NewStyle().Bold(true),
	}
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}

	return style.Render(text)
}

// useColor resolves the --color flag for w: "always", "never" or "auto"
// (color only when w is a terminal).
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
