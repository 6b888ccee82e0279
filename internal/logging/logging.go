// Package logging is a thin leveled wrapper over the standard library's log
// package, matching the plain log.Printf/log.Fatalf style the rest of the
// daemon is written in. It exists only to gate increasingly chatty output
// behind -v/-vv/-vvv, not to replace stdlib log with a structured logger.
package logging

import (
	"log"
	"os"
)

// Level is a verbosity threshold. Messages logged at a level above the
// configured one are dropped.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

// ParseLevel maps a config's log_level string to a Level. Unknown values
// fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "warn":
		return LevelWarn
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

// LevelFromVerbosity maps cobra's -v/-vv/-vvv count to a Level.
func LevelFromVerbosity(count int) Level {
	switch {
	case count >= 3:
		return LevelTrace
	case count == 2:
		return LevelDebug
	case count == 1:
		return LevelInfo
	default:
		return LevelWarn
	}
}

// Logger gates stdlib log.Printf calls behind a verbosity level.
type Logger struct {
	level Level
	std   *log.Logger
}

// New returns a Logger writing to stderr at the given level.
func New(level Level) *Logger {
	return &Logger{level: level, std: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetLevel changes the logger's verbosity threshold, for SIGHUP reload.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) logf(at Level, format string, args ...any) {
	if at > l.level {
		return
	}
	l.std.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Tracef(format string, args ...any) { l.logf(LevelTrace, format, args...) }

// Fatalf logs unconditionally and exits 1, matching log.Fatalf.
func (l *Logger) Fatalf(format string, args ...any) {
	l.std.Fatalf(format, args...)
}
