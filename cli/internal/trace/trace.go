// Package trace provides a small Tracer for writing internal step output to stderr
// when --trace or debug is set. No-op when the writer is nil.
//
// Section and Printf write plain text; Debug and Warn emit structured events
// through zerolog's console writer.
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Tracer writes sectioned trace output. When the underlying writer is nil, all methods no-op.
type Tracer struct {
	w     io.Writer
	debug bool
	log   zerolog.Logger
}

// New returns a Tracer that writes to w. If w is nil, all methods no-op.
// debug enables Debug events; without it only Warn events are logged.
func New(w io.Writer, debug bool) *Tracer {
	if w == nil {
		return &Tracer{log: zerolog.Nop()}
	}
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return &Tracer{
		w:     w,
		debug: debug,
		log:   zerolog.New(cw).Level(level),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Enabled returns true if the tracer has a non-nil writer.
func (t *Tracer) Enabled() bool {
	return t != nil && t.w != nil
}

// DebugEnabled reports whether Debug events are written.
func (t *Tracer) DebugEnabled() bool {
	return t.Enabled() && t.debug
}

// Section writes a section header: "\n[commitcraft:trace] === name ===\n"
func (t *Tracer) Section(name string) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "\n[commitcraft:trace] === %s ===\n", name)
}

// Printf writes to the trace writer when enabled. Format and args are as in fmt.Printf.
func (t *Tracer) Printf(format string, args ...interface{}) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, format, args...)
}

// Debug logs msg with alternating key/value fields when debug is on.
func (t *Tracer) Debug(msg string, kv ...interface{}) {
	if !t.DebugEnabled() {
		return
	}
	t.log.Debug().Fields(kv).Msg(msg)
}

// Warn logs msg with alternating key/value fields.
func (t *Tracer) Warn(msg string, kv ...interface{}) {
	if !t.Enabled() {
		return
	}
	t.log.Warn().Fields(kv).Msg(msg)
}
