package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the verbosity level of logging
type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// String returns a string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case ErrorLevel:
		return "ERROR"
	case WarningLevel:
		return "WARNING"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case TraceLevel:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a level name such as "debug" to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(s) {
	case "ERROR":
		return ErrorLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "TRACE":
		return TraceLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarningLevel:
		return logrus.WarnLevel
	case DebugLevel:
		return logrus.DebugLevel
	case TraceLevel:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger is a category logger on top of logrus. Indentation nests the
// messages of a sub-step under the step that started it.
type Logger struct {
	IndentSize int
	entry      *logrus.Entry
	indent     int       // Current indentation level
	file       io.Closer // Log file owned by this logger, if any
}

// NewLogger creates a new text logger writing to stdout
func NewLogger(level LogLevel) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	base.SetLevel(level.logrus())

	return &Logger{
		IndentSize: 2,
		entry:      logrus.NewEntry(base),
	}
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(level LogLevel, filename string) (*Logger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	l := NewLogger(level)
	l.SetOutput(file)
	l.file = file
	return l, nil
}

// Close closes the log file opened by NewFileLogger. It does nothing for
// other loggers and on repeated calls.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	return file.Close()
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// SetJSON switches the output to one JSON object per line
func (l *Logger) SetJSON() {
	l.entry.Logger.SetFormatter(&logrus.JSONFormatter{})
}

// SetLevel changes the verbosity of this logger and every logger derived
// from it with WithField
func (l *Logger) SetLevel(level LogLevel) {
	l.entry.Logger.SetLevel(level.logrus())
}

// Level returns the current verbosity
func (l *Logger) Level() LogLevel {
	switch l.entry.Logger.GetLevel() {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return ErrorLevel
	case logrus.WarnLevel:
		return WarningLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.DebugLevel:
		return DebugLevel
	default:
		return TraceLevel
	}
}

// WithField returns a logger sharing the output that tags every message
// with key=value
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		IndentSize: l.IndentSize,
		entry:      l.entry.WithField(key, value),
		indent:     l.indent,
	}
}

// Indent increases the indentation level
func (l *Logger) Indent() {
	l.indent++
}

// Outdent decreases the indentation level
func (l *Logger) Outdent() {
	if l.indent > 0 {
		l.indent--
	}
}

// log logs a message at the specified level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.entry.Logger.IsLevelEnabled(level.logrus()) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.indent > 0 {
		msg = strings.Repeat(" ", l.indent*l.IndentSize) + msg
	}
	l.entry.Log(level.logrus(), msg)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Trace logs a trace message (highest verbosity)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(TraceLevel, format, args...)
}

// Circuit logs information about circuit state
func (l *Logger) Circuit(format string, args ...interface{}) {
	l.log(DebugLevel, "CIRCUIT: "+format, args...)
}

// Algorithm logs information about the repair search
func (l *Logger) Algorithm(format string, args ...interface{}) {
	l.log(DebugLevel, "ALGORITHM: "+format, args...)
}

// Decision logs an accepted swap
func (l *Logger) Decision(format string, args ...interface{}) {
	l.log(DebugLevel, "DECISION: "+format, args...)
}

// Candidate logs information about individual swap candidates
func (l *Logger) Candidate(format string, args ...interface{}) {
	l.log(TraceLevel, "CANDIDATE: "+format, args...)
}

// DefaultLogger is the default logger instance
var DefaultLogger = NewLogger(InfoLevel)

// SetDefaultLogLevel sets the log level of the default logger
func SetDefaultLogLevel(level LogLevel) {
	DefaultLogger.SetLevel(level)
}
