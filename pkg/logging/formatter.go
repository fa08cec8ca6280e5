/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatters for the Akaylee fuzzy tools. Renders a compact line with
optional colors and caller, fields sorted by key, and an inference-specific prefix derived
from the message (DEF, RUN, RULE, OUTPUT, BATCH).
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides compact, structured logging output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, ""), nil
}

func (f *CustomFormatter) format(entry *logrus.Entry, prefix string) []byte {
	var output strings.Builder

	if f.Timestamp {
		output.WriteString(f.paint(36, entry.Time.Format("2006-01-02 15:04:05.000")))
		output.WriteString(" ")
	}

	output.WriteString(f.paint(f.getLevelColor(entry.Level), strings.ToUpper(entry.Level.String())))
	output.WriteString(" ")

	if prefix != "" {
		output.WriteString(f.paint(35, "["+prefix+"]"))
		output.WriteString(" ")
	}

	if f.Caller && entry.HasCaller() {
		caller := fmt.Sprintf("[%s:%d]", shortFile(entry.Caller.File), entry.Caller.Line)
		output.WriteString(f.paint(33, caller))
		output.WriteString(" ")
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data))
	}

	output.WriteString("\n")
	return []byte(output.String())
}

// paint wraps s in an ANSI color when colors are enabled
func (f *CustomFormatter) paint(color int, s string) string {
	if !f.Colors {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", color, s)
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	default:
		return 35 // Magenta
	}
}

// formatFields renders key=value pairs sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := formatValue(fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, value))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
	}

	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case float64:
		return fmt.Sprintf("%.4g", v)
	case map[string]float64:
		return formatFloatMap(v)
	case string:
		return truncate(v, maxValueRunes)
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

const maxValueRunes = 80

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// formatFloatMap renders {a:0.5 b:1} with sorted keys
func formatFloatMap(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%.4g", k, m[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func shortFile(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// InferenceFormatter adds a pipeline-stage prefix to each line
type InferenceFormatter struct {
	CustomFormatter
}

// Format formats inference log entries with a stage prefix
func (f *InferenceFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, stagePrefix(entry.Message)), nil
}

// stagePrefix returns a prefix based on the log message
func stagePrefix(message string) string {
	switch {
	case strings.HasPrefix(message, "Definition"):
		return "DEF"
	case strings.HasPrefix(message, "Inference run"), strings.HasPrefix(message, "Fuzzification"):
		return "RUN"
	case strings.HasPrefix(message, "Rule"):
		return "RULE"
	case strings.HasPrefix(message, "Output"), strings.HasPrefix(message, "No applicable rule"):
		return "OUTPUT"
	case strings.HasPrefix(message, "Batch"), strings.HasPrefix(message, "Case"):
		return "BATCH"
	case strings.HasPrefix(message, "Report"):
		return "REPORT"
	default:
		return ""
	}
}
