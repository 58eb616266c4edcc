// Package logging provides the thin per-subsystem wrapper around the
// standard library logger used throughout the compositor. There is no
// structured-logging dependency in the teacher's stack, so this stays on
// log.Logger with a subsystem prefix, matching the teacher's own plain
// fmt/log usage.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger prefixes every line with a subsystem tag, e.g. "root", "seat".
type Logger struct {
	prefix string
	std    *log.Logger
}

// New returns a Logger tagging every line with subsystem.
func New(subsystem string) *Logger {
	return &Logger{
		prefix: subsystem,
		std:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.std.Printf("[%s] "+format, append([]any{l.prefix}, args...)...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.std.Printf("[%s] WARN "+format, append([]any{l.prefix}, args...)...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf("[%s] ERROR "+format, append([]any{l.prefix}, args...)...)
}

// Fatalf logs then exits the process, reserved for unrecoverable startup
// failures per the ambient error-handling convention: errors are returned
// and handled everywhere except main, which may exit.
func (l *Logger) Fatalf(format string, args ...any) {
	l.std.Fatalf("[%s] FATAL "+format, append([]any{l.prefix}, args...)...)
}

func (l *Logger) Printf(format string, args ...any) {
	l.std.Printf(fmt.Sprintf("[%s] %s", l.prefix, format), args...)
}
