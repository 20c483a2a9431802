// Package observability defines shared logging primitives.
package observability

import (
	"fmt"
	"log"
	"strings"
)

// Logger captures structured logging behaviours shared across layers.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a key/value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// String builds a string-valued field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int builds an int-valued field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Err builds an error-valued field under the conventional "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

var defaultLogger Logger = noopLogger{}

// SetLogger overrides the global logger used by the system.
func SetLogger(logger Logger) {
	if logger == nil {
		defaultLogger = noopLogger{}
		return
	}
	defaultLogger = logger
}

// Log returns the current global logger instance.
func Log() Logger {
	return defaultLogger
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

// StdLogger adapts a standard library log.Logger to the Logger interface.
type StdLogger struct {
	out *log.Logger
}

// NewStdLogger wraps the provided log.Logger; nil falls back to log.Default.
func NewStdLogger(out *log.Logger) *StdLogger {
	if out == nil {
		out = log.Default()
	}
	return &StdLogger{out: out}
}

func (l *StdLogger) Debug(msg string, fields ...Field) { l.emit("debug", msg, fields) }
func (l *StdLogger) Info(msg string, fields ...Field)  { l.emit("info", msg, fields) }
func (l *StdLogger) Error(msg string, fields ...Field) { l.emit("error", msg, fields) }

func (l *StdLogger) emit(level, msg string, fields []Field) {
	var sb strings.Builder
	sb.WriteString("level=")
	sb.WriteString(level)
	sb.WriteString(" msg=")
	sb.WriteString(fmt.Sprintf("%q", msg))
	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(f.Key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%v", f.Value))
	}
	l.out.Println(sb.String())
}
