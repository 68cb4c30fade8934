// Package report renders calibration results for the terminal, for markdown
// consumers and as machine-readable JSON or YAML.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // TTY: text, otherwise markdown
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every accepted output mode.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}

// ParseMode validates an output mode name. "md" is accepted for markdown and
// the empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected auto, text, markdown, json or yaml)", s)
	}
}

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Total   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Total:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	}
}

// Renderer writes reports to an output stream.
type Renderer struct {
	w       io.Writer
	errW    io.Writer
	mode    Mode
	isTTY   bool
	styles  *Styles
	printer *message.Printer
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(w, errW, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal flag.
// Colors are disabled when isTTY is false.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode Mode) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		w:       w,
		errW:    errW,
		mode:    mode,
		isTTY:   isTTY,
		styles:  newStyles(lr),
		printer: message.NewPrinter(language.English),
	}
}

// ErrWriter returns the diagnostic output stream.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errW
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Number formats n with thousands separators.
func (r *Renderer) Number(n uint64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Renderer) println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

func (r *Renderer) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}
