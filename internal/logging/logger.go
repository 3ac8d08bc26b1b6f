// Package logging provides the structured application logger used by the CLI.
//
// Entries are written as JSON (or a compact text line) to stderr, to a
// rotating file, or to an in-memory buffer for tests. Stdout is never used:
// it carries command output that agents parse.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ApplicationLogger defines the interface for structured application logging.
type ApplicationLogger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	ErrorWithError(ctx context.Context, err error, message string, fields Fields)
	WithComponent(component string) ApplicationLogger
	Close() error
}

// Fields represents structured logging fields.
type Fields map[string]interface{}

// Supported outputs.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
	OutputBuffer = "buffer"
)

// Config represents logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stderr, file, buffer

	// Writer replaces os.Stderr for the stderr output.
	Writer io.Writer

	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LogEntry represents the structure of log entries.
type LogEntry struct {
	Timestamp     string                 `json:"timestamp"`
	Level         string                 `json:"level"`
	Message       string                 `json:"message"`
	CorrelationID string                 `json:"correlation_id"`
	Component     string                 `json:"component"`
	Error         string                 `json:"error,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

var levels = map[string]int{ //nolint:gochecknoglobals // read-only lookup table
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// sink is shared between a logger and the component loggers derived from it.
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	buffer *bytes.Buffer
	closer io.Closer
}

type applicationLogger struct {
	config    Config
	component string
	sink      *sink
}

// NewApplicationLogger creates a logger for the given configuration.
func NewApplicationLogger(config Config) (ApplicationLogger, error) {
	if config.Output == "" {
		config.Output = OutputStderr
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	s := &sink{}
	switch config.Output {
	case OutputBuffer:
		s.buffer = &bytes.Buffer{}
		s.out = s.buffer
	case OutputFile:
		rotating := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   true,
		}
		s.out = rotating
		s.closer = rotating
	default:
		s.out = config.Writer
		if s.out == nil {
			s.out = os.Stderr
		}
	}

	return &applicationLogger{config: config, sink: s}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() ApplicationLogger {
	return &applicationLogger{
		config: Config{Level: "error", Format: "json", Output: OutputStderr},
		sink:   &sink{out: io.Discard},
	}
}

// ValidateConfig checks level, format and output of a logger configuration.
func ValidateConfig(config Config) error {
	if _, ok := levels[strings.ToUpper(config.Level)]; !ok {
		return fmt.Errorf("invalid log level: %s", config.Level)
	}

	switch config.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Format)
	}

	switch config.Output {
	case OutputStderr, OutputBuffer:
	case OutputFile:
		if config.FilePath == "" {
			return fmt.Errorf("log output %q requires a file path", OutputFile)
		}
	default:
		return fmt.Errorf("invalid log output: %s", config.Output)
	}

	return nil
}

// BufferContents returns what a buffer-output logger has written so far.
// It returns an empty string for any other logger.
func BufferContents(logger ApplicationLogger) string {
	l, ok := logger.(*applicationLogger)
	if !ok || l.sink.buffer == nil {
		return ""
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.buffer.String()
}

func (l *applicationLogger) shouldLog(level string) bool {
	return levels[level] >= levels[strings.ToUpper(l.config.Level)]
}

// Debug logs debug messages.
func (l *applicationLogger) Debug(ctx context.Context, message string, fields Fields) {
	if l.shouldLog("DEBUG") {
		l.logEntry(ctx, "DEBUG", message, "", fields)
	}
}

// Info logs info messages.
func (l *applicationLogger) Info(ctx context.Context, message string, fields Fields) {
	if l.shouldLog("INFO") {
		l.logEntry(ctx, "INFO", message, "", fields)
	}
}

// Warn logs warning messages.
func (l *applicationLogger) Warn(ctx context.Context, message string, fields Fields) {
	if l.shouldLog("WARN") {
		l.logEntry(ctx, "WARN", message, "", fields)
	}
}

// Error logs error messages.
func (l *applicationLogger) Error(ctx context.Context, message string, fields Fields) {
	if l.shouldLog("ERROR") {
		l.logEntry(ctx, "ERROR", message, "", fields)
	}
}

// ErrorWithError logs error messages with an error object.
func (l *applicationLogger) ErrorWithError(ctx context.Context, err error, message string, fields Fields) {
	if l.shouldLog("ERROR") {
		errStr := ""
		if err != nil {
			errStr = err.Error()
		}
		l.logEntry(ctx, "ERROR", message, errStr, fields)
	}
}

// WithComponent creates a logger sharing the same sink with a specific component.
func (l *applicationLogger) WithComponent(component string) ApplicationLogger {
	return &applicationLogger{
		config:    l.config,
		component: component,
		sink:      l.sink,
	}
}

// Close releases the file sink, if any.
func (l *applicationLogger) Close() error {
	if l.sink.closer == nil {
		return nil
	}
	return l.sink.closer.Close()
}

func (l *applicationLogger) logEntry(ctx context.Context, level, message, errorStr string, fields Fields) {
	component := l.component
	if component == "" {
		component = "default"
	}

	entry := &LogEntry{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Level:         level,
		Message:       message,
		CorrelationID: getOrGenerateCorrelationID(ctx),
		Component:     component,
		Error:         errorStr,
	}
	if len(fields) > 0 {
		entry.Metadata = make(map[string]interface{}, len(fields))
		for key, value := range fields {
			entry.Metadata[key] = value
		}
	}

	l.writeLogEntry(entry)
}

func (l *applicationLogger) writeLogEntry(entry *LogEntry) {
	var line []byte
	if l.config.Format == "text" {
		line = []byte(formatText(entry))
	} else {
		data, err := json.Marshal(entry)
		if err != nil {
			data = []byte(fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry: %s"}`, err))
		}
		line = data
	}
	line = append(line, '\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.out.Write(line)
}

func formatText(entry *LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s [%s] %s", entry.Timestamp, entry.Level, entry.Component, entry.Message)
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%q", entry.Error)
	}

	keys := make([]string, 0, len(entry.Metadata))
	for key := range entry.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, entry.Metadata[key])
	}
	fmt.Fprintf(&b, " correlation_id=%s", entry.CorrelationID)
	return b.String()
}
