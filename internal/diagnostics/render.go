package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Renderer is the small diagnostic façade spec §9 calls for: a single
// place backends (CLI, IDE) plug presentation behind, kept separate
// from the Engine that owns accumulation and ordering.
type Renderer struct {
	Color bool // whether to emit ANSI color codes
}

// NewRenderer decides colorization from the explicit config flag and
// whether stdout is a real terminal (mirrors funxy's use of
// mattn/go-isatty to gate colored CLI output).
func NewRenderer(colorDiagnostics bool) *Renderer {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Renderer{Color: colorDiagnostics && tty}
}

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	helpColor   = color.New(color.FgCyan)
	noteColor   = color.New(color.FgHiBlack)
	locColor    = color.New(color.FgBlue)
)

// Render writes e in the §6-specified format:
//
//	<level>: <message>
//	 → <file>:<line>:<column>
//	  help: <suggestion>?
//	  note: <note>?
func (r *Renderer) Render(w io.Writer, e *SemanticError) {
	level := strings.ToUpper(e.Severity.String()[:1]) + e.Severity.String()[1:]
	if r.Color {
		c := errorColor
		if e.Severity == SeverityWarning {
			c = warnColor
		}
		fmt.Fprintf(w, "%s: %s\n", c.Sprint(level), e.Message)
		fmt.Fprintf(w, " → %s\n", locColor.Sprint(e.Location.String()))
	} else {
		fmt.Fprintf(w, "%s: %s\n", level, e.Message)
		fmt.Fprintf(w, " → %s\n", e.Location.String())
	}

	if hint := SuggestionHint(e.Suggestions); hint != "" {
		if r.Color {
			fmt.Fprintf(w, "  help: %s\n", helpColor.Sprint(hint))
		} else {
			fmt.Fprintf(w, "  help: %s\n", hint)
		}
	}
	if e.Note != "" {
		if r.Color {
			fmt.Fprintf(w, "  note: %s\n", noteColor.Sprint(e.Note))
		} else {
			fmt.Fprintf(w, "  note: %s\n", e.Note)
		}
	}
}

// RenderAll renders every diagnostic in order.
func (r *Renderer) RenderAll(w io.Writer, errs []*SemanticError) {
	for _, e := range errs {
		r.Render(w, e)
	}
}
