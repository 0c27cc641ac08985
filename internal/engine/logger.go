// Package engine provides the small pieces of runtime scaffolding the
// Coordinator is built on: a structured logger and an externally driven
// clock. Neither owns a goroutine or a loop of its own — the host drives
// both, matching the single-threaded cooperative model the core requires.
package engine

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger is the structured logging interface the Coordinator emits
// through. WithField returns a derived Logger that prepends one more
// key=value pair to every line it emits afterward — the Coordinator
// calls it once at construction to scope every subsequent log line to
// its instance id, so call sites never format the id into a message
// themselves.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	WithField(key string, value any) Logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// field is one key=value pair rendered ahead of the level and message
// on every line a DefaultLogger emits.
type field struct {
	key   string
	value any
}

// loggerState is the mutable debug flag shared by a DefaultLogger and
// every Logger derived from it via WithField, so toggling debug on one
// affects all of them.
type loggerState struct {
	mu    sync.Mutex
	debug bool
}

// DefaultLogger writes logfmt-style lines (field=value ... level: msg)
// to stdout/stderr via the standard log package.
type DefaultLogger struct {
	state  *loggerState
	fields []field
	out    *log.Logger
	err    *log.Logger
}

// NewDefaultLogger creates a logger with no fields attached, gating
// Debugf on debug. name, if non-empty, is attached as the first field
// under the key "component".
func NewDefaultLogger(name string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		state: &loggerState{debug: debug},
		out:   log.New(os.Stdout, "", flags),
		err:   log.New(os.Stderr, "", flags),
	}
	if name != "" {
		l.fields = []field{{key: "component", value: name}}
	}
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	return l.state.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.state.mu.Lock()
	l.state.debug = enabled
	l.state.mu.Unlock()
}

// WithField returns a derived Logger sharing this one's output streams
// and debug flag, with one more field appended. The receiver is left
// untouched, so a base logger can be reused to derive several scoped
// children (e.g. one per entity) without the fields bleeding together.
func (l *DefaultLogger) WithField(key string, value any) Logger {
	derived := make([]field, len(l.fields), len(l.fields)+1)
	copy(derived, l.fields)
	derived = append(derived, field{key: key, value: value})
	return &DefaultLogger{state: l.state, fields: derived, out: l.out, err: l.err}
}

func (l *DefaultLogger) render(level, format string, args ...any) string {
	var b strings.Builder
	for _, f := range l.fields {
		fmt.Fprintf(&b, "%s=%v ", f.key, f.value)
	}
	b.WriteString(level)
	b.WriteString(": ")
	fmt.Fprintf(&b, format, args...)
	return b.String()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.render("debug", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.render("info", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.render("warn", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.render("error", format, args...))
}

// nopLogger discards everything, including WithField's extra fields.
// Used when a host embeds the core as a library and doesn't want log
// output.
type nopLogger struct{}

// NewNopLogger returns a Logger that discards all output.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                     { return false }
func (nopLogger) SetDebug(enabled bool)                  {}
func (nopLogger) WithField(key string, value any) Logger { return nopLogger{} }
func (nopLogger) Debugf(format string, args ...any)      {}
func (nopLogger) Infof(format string, args ...any)       {}
func (nopLogger) Warnf(format string, args ...any)       {}
func (nopLogger) Errorf(format string, args ...any)      {}
