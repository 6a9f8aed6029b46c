// Package ui is the interactive terminal front-end: progress steps, status
// lines, the suggestion menu and the commit confirmation.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorSuccess = lipgloss.Color("#00cc66")
	colorError   = lipgloss.Color("#ff5555")
	colorWarning = lipgloss.Color("#ffaa00")
	colorInfo    = lipgloss.Color("#0099ff")
	colorMuted   = lipgloss.Color("#888888")
)

// Options configures a UI.
type Options struct {
	// Color enables lipgloss styling. Off for pipes and files.
	Color bool
	// Debug shows Debug lines and extra commit details.
	Debug bool
}

// UI reads answers from in and writes everything to out.
type UI struct {
	in   *bufio.Reader
	out  io.Writer
	opts Options

	header, success, failure, warning, info, muted lipgloss.Style
}

// New returns a UI over in and out.
func New(in io.Reader, out io.Writer, opts Options) *UI {
	r := lipgloss.NewRenderer(out)
	return &UI{
		in:      bufio.NewReader(in),
		out:     out,
		opts:    opts,
		header:  r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorSuccess),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Terminal returns a UI on the process streams, with colour only when out is a terminal.
func Terminal(in, out *os.File, debug bool) *UI {
	return New(in, out, Options{
		Color: term.IsTerminal(int(out.Fd())),
		Debug: debug,
	})
}

func (u *UI) style(s lipgloss.Style, text string) string {
	if !u.opts.Color {
		return text
	}
	return s.Render(text)
}

func (u *UI) println(a ...interface{}) {
	fmt.Fprintln(u.out, a...)
}

// Header prints the application banner.
func (u *UI) Header() {
	u.println(u.style(u.header, "🚀 AI-Powered Git Commit Generator"))
	u.println(strings.Repeat("=", 50))
}

// Step prints "[i/n] msg".
func (u *UI) Step(i, n int, msg string) {
	u.println(fmt.Sprintf("📍 [%d/%d] %s", i, n, msg))
}

func (u *UI) Success(msg string) {
	u.println(u.style(u.success, "✅ "+msg))
}

func (u *UI) Error(msg string) {
	u.println(u.style(u.failure, "❌ "+msg))
}

func (u *UI) Warn(msg string) {
	u.println(u.style(u.warning, "⚠️  "+msg))
}

func (u *UI) Info(msg string) {
	u.println(u.style(u.info, "ℹ️  "+msg))
}

// Debug prints msg only in debug mode.
func (u *UI) Debug(msg string) {
	if !u.opts.Debug {
		return
	}
	u.println(u.style(u.muted, "🔍 DEBUG: "+msg))
}

// DebugEnabled reports whether Debug lines are shown.
func (u *UI) DebugEnabled() bool {
	return u.opts.Debug
}

// readLine prints prompt and returns the trimmed answer. io.EOF is returned
// only when the input ended before any answer was typed.
func (u *UI) readLine(prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	line, err := u.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
