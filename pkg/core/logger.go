package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// DefaultLogger writes informational output to stdout and warnings to stderr
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

// NewDefaultLogger creates a logger writing to the standard streams
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(os.Stdout, os.Stderr, prefix, debug)
}

// NewWriterLogger creates a logger writing to the given writers
func NewWriterLogger(out, errOut io.Writer, prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

// SetDebug toggles debug output
func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) prefixf(level string, format string, args ...interface{}) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

// Printf logs an informational message
func (l *DefaultLogger) Printf(format string, args ...interface{}) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

// Debugf logs only when debug output is enabled
func (l *DefaultLogger) Debugf(format string, args ...interface{}) {
	l.mu.Lock()
	dbg := l.debug
	l.mu.Unlock()
	if !dbg {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

// Warnf logs a warning to the error stream
func (l *DefaultLogger) Warnf(format string, args ...interface{}) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
func (NopLogger) Warnf(format string, args ...interface{})  {}
