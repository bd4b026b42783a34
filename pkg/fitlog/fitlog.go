// Package fitlog provides a simple structured logger for the fitting engine
// and the services wrapped around it.
package fitlog

import (
	"fmt"
	"log"
	"os"
)

// Logger provides structured logging with key-value pairs.
type Logger struct {
	*log.Logger
	enabled bool
}

// New creates a new Logger instance writing to stdout.
func New() *Logger {
	return &Logger{
		Logger:  log.New(os.Stdout, "[fitting-engine] ", log.LstdFlags),
		enabled: true,
	}
}

// NewNoop creates a no-op logger for testing.
func NewNoop() *Logger {
	return &Logger{
		Logger:  log.New(os.Stdout, "", 0),
		enabled: false,
	}
}

// Debug logs debug-level messages with key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.enabled {
		return
	}
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

// Info logs info-level messages with key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if !l.enabled {
		return
	}
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs warning-level messages with key-value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if !l.enabled {
		return
	}
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs error-level messages with key-value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if !l.enabled {
		return
	}
	l.logWithKV("ERROR", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	output := level + " " + msg

	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			output += " " + fmt.Sprint(keysAndValues[i]) + "=" + formatValue(keysAndValues[i+1])
		}
	}

	l.Println(output)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprint(val)
	}
}
