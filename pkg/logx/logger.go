// Package logx provides the structured logger used by the module's
// cmd/vset command.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelColor = map[LogLevel]string{
	LevelDebug: "\x1b[90m",
	LevelInfo:  "\x1b[36m",
	LevelWarn:  "\x1b[33m",
	LevelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

// Logger is the logging interface callers depend on, never a concrete
// type, so callers can substitute NopLogger() in tests.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type defaultLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel LogLevel
	color    bool
	prefix   string
	keyvals  []any
}

// NewLogger creates a logger writing to w. Color is enabled only when
// w is an *os.File that isatty reports as a terminal.
func NewLogger(w io.Writer, minLevel LogLevel) Logger {
	return &defaultLogger{writer: w, minLevel: minLevel, color: isTerminal(w)}
}

// NewStdLogger creates a logger writing to stderr, matching where
// command-line diagnostics belong.
func NewStdLogger(minLevel LogLevel) Logger {
	return NewLogger(os.Stderr, minLevel)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *defaultLogger) Debug(msg string, keyvals ...any) { l.log(LevelDebug, msg, keyvals...) }
func (l *defaultLogger) Info(msg string, keyvals ...any)  { l.log(LevelInfo, msg, keyvals...) }
func (l *defaultLogger) Warn(msg string, keyvals ...any)  { l.log(LevelWarn, msg, keyvals...) }
func (l *defaultLogger) Error(msg string, keyvals ...any) { l.log(LevelError, msg, keyvals...) }

func (l *defaultLogger) With(keyvals ...any) Logger {
	merged := make([]any, 0, len(l.keyvals)+len(keyvals))
	merged = append(merged, l.keyvals...)
	merged = append(merged, keyvals...)
	return &defaultLogger{writer: l.writer, minLevel: l.minLevel, color: l.color, prefix: l.prefix, keyvals: merged}
}

func (l *defaultLogger) log(level LogLevel, msg string, keyvals ...any) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	tag := level.String()
	if l.color {
		tag = levelColor[level] + tag + colorReset
	}
	fmt.Fprintf(l.writer, "%s [%s] %s", ts, tag, l.prefix)

	writeKeyvals(l.writer, l.keyvals)
	writeKeyvals(l.writer, keyvals)

	fmt.Fprintf(l.writer, ": %s\n", msg)
}

func writeKeyvals(w io.Writer, keyvals []any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(w, " %v=%s", keyvals[i], formatValue(keyvals[i+1]))
	}
}

// formatValue renders integer counts comma-grouped (e.g.
// "node_count=12,482") instead of raw digits; other values use %v.
// Byte sizes are formatted by the caller with Bytes.
func formatValue(v any) string {
	switch x := v.(type) {
	case int:
		return humanize.Comma(int64(x))
	case int64:
		return humanize.Comma(x)
	case uint64:
		return humanize.Comma(int64(x))
	default:
		return fmt.Sprintf("%v", v)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)    {}
func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (n nopLogger) With(...any) Logger    { return n }

// NopLogger discards all messages.
func NopLogger() Logger { return nopLogger{} }

// Bytes renders a byte count in human-readable form, for callers
// building log keyvals or CLI output (e.g. index memory estimates).
func Bytes(n uint64) string { return humanize.Bytes(n) }
