package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	hgschema "github.com/higlass/hgschema"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorDim   = lipgloss.Color("240")
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

// report renders check results. Styles are bound to the output writer so
// color is only emitted on terminals.
type report struct {
	w       io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	path    lipgloss.Style
	dim     lipgloss.Style
}

func newReport(w io.Writer) *report {
	r := lipgloss.NewRenderer(w)
	return &report{
		w:       w,
		success: r.NewStyle().Foreground(colorGreen),
		failure: r.NewStyle().Foreground(colorRed).Bold(true),
		path:    r.NewStyle().Foreground(colorCyan),
		dim:     r.NewStyle().Foreground(colorDim),
	}
}

func (r *report) ok(name string) {
	fmt.Fprintf(r.w, "%s %s\n", r.success.Render(iconSuccess), name)
}

func (r *report) failed(name string, iss hgschema.Issues) {
	noun := "issues"
	if len(iss) == 1 {
		noun = "issue"
	}
	fmt.Fprintf(r.w, "%s %s %s\n", r.failure.Render(iconError), name, r.dim.Render(fmt.Sprintf("(%d %s)", len(iss), noun)))
	for _, it := range iss {
		fmt.Fprintf(r.w, "    %s  %s", r.path.Render(it.Path), it.Code)
		if it.Expected != "" {
			fmt.Fprintf(r.w, "  expected %s", it.Expected)
			if it.Got != "" {
				fmt.Fprintf(r.w, ", got %s", it.Got)
			}
		}
		if it.Hint != "" {
			fmt.Fprintf(r.w, "  %s", r.dim.Render(it.Hint))
		}
		fmt.Fprintln(r.w)
	}
}

func (r *report) summary(checked, failed int) {
	if failed == 0 {
		fmt.Fprintln(r.w, r.success.Render(fmt.Sprintf("%d valid", checked)))
		return
	}
	fmt.Fprintln(r.w, r.failure.Render(fmt.Sprintf("%d of %d invalid", failed, checked)))
}
