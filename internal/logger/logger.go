// Package logger is the leveled logger skywatch uses across its fetch,
// cache, and prediction paths. It wraps the standard log package with
// level filtering; the level and format come from the logging section of
// the configuration and are applied once at startup via Init. Before Init
// runs, everything below Fatal is silent.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level orders message severities for filtering.
type Level int

const (
	// DebugLevel carries per-request detail, like resolved coordinates
	// and catalog cache decisions. Off by default.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel marks degraded behavior the run can survive, like a stale
	// element cache or a popular satellite missing from the catalog.
	WarnLevel
	// ErrorLevel marks failures that abort the current request.
	ErrorLevel
)

// Logger filters messages below its level before handing them to the
// standard logger.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger *Logger

// ParseLevel maps a configuration string to a Level. Unknown strings fall
// back to InfoLevel; config validation rejects them before this runs.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init installs the package-level logger. Format "text" adds the caller's
// file and line to each entry; "plain" keeps timestamps only.
func Init(level string, format string) {
	flags := log.LstdFlags
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	defaultLogger = newLogger(ParseLevel(level), os.Stderr, flags)
}

func newLogger(level Level, out io.Writer, flags int) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(out, "", flags),
	}
}

func (l *Logger) log(level Level, tag, format string, args ...interface{}) {
	if l == nil || l.level > level {
		return
	}
	_ = l.logger.Output(3, fmt.Sprintf(tag+format, args...))
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...interface{}) {
	defaultLogger.log(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel.
func Info(format string, args ...interface{}) {
	defaultLogger.log(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel.
func Warn(format string, args ...interface{}) {
	defaultLogger.log(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel.
func Error(format string, args ...interface{}) {
	defaultLogger.log(ErrorLevel, "[ERROR] ", format, args...)
}

// Fatal logs the message and exits. Unlike the other levels it never
// filters and works before Init, so startup failures are always reported.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if defaultLogger != nil {
		_ = defaultLogger.logger.Output(2, msg)
	} else {
		log.Print(msg)
	}
	os.Exit(1)
}
