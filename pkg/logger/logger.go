package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.FgHiBlack),
	"INFO":  color.New(color.FgCyan),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

// Logger provides leveled logging with optional verbose progress output
type Logger struct {
	level   LogLevel
	verbose bool
	out     io.Writer
}

// NewLogger creates a new logger with specified level and verbose mode
func NewLogger(level string, verbose bool) *Logger {
	return &Logger{
		level:   ParseLogLevel(level),
		verbose: verbose,
		out:     color.Output,
	}
}

// SetOutput redirects all log output, mainly for tests
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Verbose reports whether progress details are printed
func (l *Logger) Verbose() bool {
	return l.verbose
}

// DebugEnabled reports whether Debug messages are printed
func (l *Logger) DebugEnabled() bool {
	return l.level <= LevelDebug
}

// Debug logs debug information (only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugEnabled() {
		l.log("DEBUG", fmt.Sprintf(format, args...))
	}
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbose && l.level <= LevelInfo {
		l.log("INFO", fmt.Sprintf(format, args...))
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.log("WARN", fmt.Sprintf(format, args...))
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.log("ERROR", fmt.Sprintf(format, args...))
	}
}

// ProgressAlways logs milestones that are shown regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Progress logs step-by-step details (only in verbose mode)
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) log(level, message string) {
	tag := "[" + level + "]"
	if c, ok := levelColors[level]; ok {
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(l.out, "%s %s\n", tag, message)
}

// ParseLogLevel converts a level name to LogLevel, defaulting to info
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// DefaultLogger returns a default logger instance
func DefaultLogger() *Logger {
	return NewLogger("info", false)
}

// Discard returns a logger that drops everything, used by tests
func Discard() *Logger {
	l := NewLogger("error", false)
	l.SetOutput(io.Discard)
	return l
}

// Fatal logs a fatal error and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log("ERROR", "FATAL: "+fmt.Sprintf(format, args...))
	os.Exit(1)
}
