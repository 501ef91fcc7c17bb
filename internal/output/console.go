package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console colors, matching the palette used by the summary.
const (
	ColorFound    = lipgloss.Color("42")  // green
	ColorNotFound = lipgloss.Color("214") // orange
	ColorFailed   = lipgloss.Color("196") // red
	ColorMuted    = lipgloss.Color("245") // grey
)

const arrow = "→"

// Console echoes one human-readable line per record.
type Console struct {
	w      io.Writer
	styled bool

	found    lipgloss.Style
	notFound lipgloss.Style
	failed   lipgloss.Style
	muted    lipgloss.Style
}

// NewConsole returns a console writing to w. Lines are colored only when w is
// a terminal.
func NewConsole(w io.Writer) *Console {
	return newConsole(w, isTerminal(w))
}

func newConsole(w io.Writer, styled bool) *Console {
	return &Console{
		w:        w,
		styled:   styled,
		found:    lipgloss.NewStyle().Foreground(ColorFound).Bold(true),
		notFound: lipgloss.NewStyle().Foreground(ColorNotFound),
		failed:   lipgloss.NewStyle().Foreground(ColorFailed),
		muted:    lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Echo prints the line for row.
func (c *Console) Echo(row Row) error {
	prefix := fmt.Sprintf("%s | %s %s ", row.RecordID, row.ExternalURI, arrow)

	var line string
	switch row.Status {
	case StatusFound:
		line = c.render(c.found, row.QCode) + " " + c.render(c.muted, "("+row.Link+")")
	case StatusFailed:
		line = c.render(c.failed, "lookup failed")
	default:
		line = c.render(c.notFound, "No Q-code found")
	}

	_, err := fmt.Fprintln(c.w, prefix+line)
	return err
}

// Println prints a plain line, used for the run summary.
func (c *Console) Println(s string) error {
	_, err := fmt.Fprintln(c.w, s)
	return err
}

// Summary prints the run summary line, emphasised on terminals.
func (c *Console) Summary(s string) error {
	return c.Println(c.render(lipgloss.NewStyle().Bold(true), s))
}

func (c *Console) render(style lipgloss.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}
