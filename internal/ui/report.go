package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// --- Mocha Palette ---

var (
	colorRed    = lipgloss.Color("#f38ba8")
	colorCoffee = lipgloss.Color("#fab387") // Peach/Brown
	colorSubtle = lipgloss.Color("#9399b2")
)

// Reporter writes diagnostics to the error stream. Styles are bound to the
// writer's own renderer, so output is plain text when it is not a terminal.
type Reporter struct {
	w          io.Writer
	styleError lipgloss.Style
	styleWarn  lipgloss.Style
	styleHint  lipgloss.Style
}

func NewReporter(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:          w,
		styleError: r.NewStyle().Foreground(colorRed).Bold(true),
		styleWarn:  r.NewStyle().Foreground(colorCoffee),
		styleHint:  r.NewStyle().Foreground(colorSubtle).Italic(true),
	}
}

// Error reports a fatal condition.
func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.w, "%s %v\n", r.styleError.Render("Error:"), err)
}

// Warn reports a non-fatal notice such as the iteration limit.
func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.w, r.styleWarn.Render(msg))
}

// Hint prints a follow-up line under an error, e.g. usage.
func (r *Reporter) Hint(msg string) {
	fmt.Fprintln(r.w, r.styleHint.Render(msg))
}
