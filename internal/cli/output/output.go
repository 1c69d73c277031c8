// Package output renders styled terminal output for the CLI and the shell.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode controls when output is colored.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Styles holds the lipgloss styles used for output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Return  lipgloss.Style
	Header1 lipgloss.Style
	Header2 lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Return:  r.NewStyle().Foreground(lipgloss.Color("8")),
		Header1: r.NewStyle().Bold(true).Underline(true),
		Header2: r.NewStyle().Bold(true),

		StatusSuccess: r.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
	}
}

// Renderer writes to stdout and stderr with styles matching the color
// mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styles *Styles
	tty    bool
}

// NewRenderer creates a renderer. In auto mode, colors are used only when
// out is a terminal and the environment allows them.
func NewRenderer(out, errOut io.Writer, mode ColorMode) *Renderer {
	tty := IsTerminal(out)

	lg := lipgloss.NewRenderer(out)
	switch mode {
	case ColorAlways:
		lg.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		lg.SetColorProfile(termenv.Ascii)
	default:
		if tty {
			lg.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
		} else {
			lg.SetColorProfile(termenv.Ascii)
		}
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		styles: newStyles(lg),
		tty:    tty,
	}
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// IsTTY reports whether standard output is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.tty
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Errorln writes a line to error output.
func (r *Renderer) Errorln(a ...any) {
	_, _ = fmt.Fprintln(r.errOut, a...)
}

// JSON writes v as indented JSON to standard output.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
