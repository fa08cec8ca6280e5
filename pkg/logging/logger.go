/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Structured logging for the Akaylee fuzzy inference tools. Wraps logrus with
text, JSON and custom formats, an optional timestamped log file, an async log queue that
drains on Close, and helpers for the inference pipeline (runs, rules, outputs).
*/

package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

const logFilePattern = "akaylee-fuzzy_*.log"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level"`
	Format    LogFormat `json:"format"`
	OutputDir string    `json:"output_dir"` // empty disables the log file
	MaxFiles  int       `json:"max_files"`  // log files kept in OutputDir, 0 keeps all
	Timestamp bool      `json:"timestamp"`
	Caller    bool      `json:"caller"`
	Colors    bool      `json:"colors"`

	// Console receives log lines besides the file. Defaults to stderr so
	// command results on stdout stay machine-readable.
	Console io.Writer `json:"-"`
}

// DefaultLoggerConfig returns console-only info logging in the custom format
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		MaxFiles:  10,
		Timestamp: true,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	if c.MaxFiles < 0 {
		return fmt.Errorf("max_files must not be negative")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

type logEntry struct {
	level  logrus.Level
	msg    string
	fields logrus.Fields
}

// Logger provides structured logging with an async queue
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	filePath   string

	mu       sync.RWMutex
	closed   bool
	logQueue chan logEntry
	quit     chan struct{}
	done     chan struct{}
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:   config,
		logger:   logrus.New(),
		logQueue: make(chan logEntry, 1024),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	go l.runLogQueue()

	return l, nil
}

// setup configures level, formatter and outputs
func (l *Logger) setup() error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	l.setFormatter()

	console := l.config.Console
	if console == nil {
		console = os.Stderr
	}
	l.logger.SetOutput(console)

	return l.setupFileOutput(console)
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() {
	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !l.config.Timestamp,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		l.logger.SetFormatter(&InferenceFormatter{
			CustomFormatter: CustomFormatter{
				Timestamp: l.config.Timestamp,
				Caller:    l.config.Caller,
				Colors:    l.config.Colors,
			},
		})
	}
}

// setupFileOutput adds a timestamped log file next to the console output
func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("akaylee-fuzzy_%s.log", time.Now().Format("2006-01-02_15-04-05.000"))
	path := filepath.Join(l.config.OutputDir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file
	l.filePath = path
	l.logger.SetOutput(io.MultiWriter(console, file))

	l.logger.WithFields(logrus.Fields{
		"log_file": path,
		"level":    l.config.Level,
		"format":   l.config.Format,
	}).Debug("Logging system initialized")

	return nil
}

// cleanup removes the oldest log files beyond MaxFiles
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" || l.config.MaxFiles == 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, logFilePattern))
	if err != nil {
		return err
	}
	if len(files) <= l.config.MaxFiles {
		return nil
	}

	// the timestamp in the name sorts oldest first
	sort.Strings(files)
	for _, file := range files[:len(files)-l.config.MaxFiles] {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("failed to remove %s: %w", file, err)
		}
	}
	return nil
}

// runLogQueue writes queued entries until Close, then drains what is left
func (l *Logger) runLogQueue() {
	defer close(l.done)
	for {
		select {
		case entry := <-l.logQueue:
			l.write(entry)
		case <-l.quit:
			for {
				select {
				case entry := <-l.logQueue:
					l.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) write(entry logEntry) {
	l.logger.WithFields(entry.fields).Log(entry.level, entry.msg)
}

func (l *Logger) enqueue(level logrus.Level, msg string, fields map[string]interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	l.logQueue <- logEntry{level: level, msg: msg, fields: fields}
}

// Inference-specific logging methods

// LogDefinition logs a loaded system definition
func (l *Logger) LogDefinition(name string, variables int, rules int, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["definition"] = name
	fields["variables"] = variables
	fields["rules"] = rules

	l.enqueue(logrus.InfoLevel, "Definition loaded", fields)
}

// LogRun logs the start of an inference run
func (l *Logger) LogRun(runID string, inputs map[string]float64, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["run_id"] = runID
	fields["inputs"] = inputs

	l.enqueue(logrus.InfoLevel, "Inference run started", fields)
}

// LogRule logs the firing strength of one rule
func (l *Logger) LogRule(runID string, index int, text string, strength float64) {
	l.enqueue(logrus.DebugLevel, "Rule evaluated", map[string]interface{}{
		"run_id":   runID,
		"rule":     index,
		"text":     text,
		"strength": strength,
	})
}

// LogOutput logs the crisp value of one output variable, or a warning when no rule fired
func (l *Logger) LogOutput(runID string, variable string, value float64, label string, applicable bool) {
	fields := map[string]interface{}{
		"run_id":   runID,
		"variable": variable,
	}
	if !applicable {
		l.enqueue(logrus.WarnLevel, "No applicable rule", fields)
		return
	}
	fields["value"] = value
	fields["label"] = label
	l.enqueue(logrus.InfoLevel, "Output computed", fields)
}

// Close drains the queue, stops the writer goroutine and prunes old log files
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.quit)
	<-l.done

	var closeErr error
	if l.fileHandle != nil {
		if err := l.fileHandle.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close log file: %w", err)
		}
	}

	if err := l.cleanup(); err != nil {
		return errors.Join(closeErr, fmt.Errorf("failed to cleanup log files: %w", err))
	}

	return closeErr
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// FilePath returns the log file path, or "" when logging to the console only
func (l *Logger) FilePath() string {
	return l.filePath
}

// Debug logs a debug message (async)
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.DebugLevel, msg, fields)
}

// Info logs an info message (async)
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.InfoLevel, msg, fields)
}

// Warning logs a warning message (async)
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.WarnLevel, msg, fields)
}

// Error logs an error message (async)
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.ErrorLevel, msg, fields)
}
