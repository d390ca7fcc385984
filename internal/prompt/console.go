// Package prompt owns the terminal conversation: reading answers line by
// line, styling headings, and collecting the company details for the config
// record.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme styles terminal output. On a non-terminal writer every style renders
// as plain text.
type Theme struct {
	heading lipgloss.Style
	rule    lipgloss.Style
	token   lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
}

// NewTheme binds the styles to out so colour support is detected per writer.
func NewTheme(out io.Writer) Theme {
	r := lipgloss.NewRenderer(out)
	return Theme{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		rule:    r.NewStyle().Foreground(lipgloss.Color("#444444")),
		token:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		success: r.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
	}
}

// Banner renders title between two rules of the given width.
func (t Theme) Banner(title string, width int) string {
	rule := t.rule.Render(strings.Repeat("=", width))
	return lipgloss.JoinVertical(lipgloss.Left, rule, t.heading.Render(title), rule)
}

// Token styles a menu token.
func (t Theme) Token(s string) string { return t.token.Render(s) }

// Muted styles secondary text.
func (t Theme) Muted(s string) string { return t.muted.Render(s) }

// Failure styles an error line.
func (t Theme) Failure(s string) string { return t.failure.Render(s) }

// Success styles a confirmation line.
func (t Theme) Success(s string) string { return t.success.Render(s) }

// Console reads answers from in and writes prompts to out.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	theme Theme
}

// NewConsole wraps the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		theme: NewTheme(out),
	}
}

// Out returns the writer prompts go to.
func (c *Console) Out() io.Writer { return c.out }

// Theme returns the styles bound to Out.
func (c *Console) Theme() Theme { return c.theme }

// Printf writes formatted text to Out.
func (c *Console) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to Out.
func (c *Console) Println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

// Ask prints prompt and returns the next line with surrounding whitespace
// removed. A final line without a newline is returned normally; io.EOF is
// returned only when nothing was read.
func (c *Console) Ask(prompt string) (string, error) {
	if prompt != "" {
		_, _ = io.WriteString(c.out, prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Pause prints msg and waits for Enter.
func (c *Console) Pause(msg string) error {
	_, err := c.Ask(msg)
	return err
}
