/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for the logging system. Covers config validation, formats, the
inference helpers, file output with retention, and shutdown of the async queue.
*/

package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kleascm/akaylee-fuzzy/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestLogger(t *testing.T, format logging.LogFormat, level logging.LogLevel, buf *bytes.Buffer) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:   level,
		Format:  format,
		Console: buf,
	})
	require.NoError(t, err)
	return logger
}

// TestLoggerConfigValidate rejects unsupported settings
func TestLoggerConfigValidate(t *testing.T) {
	require.NoError(t, logging.DefaultLoggerConfig().Validate())

	cfg := logging.DefaultLoggerConfig()
	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = logging.DefaultLoggerConfig()
	cfg.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = logging.DefaultLoggerConfig()
	cfg.MaxFiles = -1
	assert.Error(t, cfg.Validate())

	_, err := logging.NewLogger(cfg)
	assert.Error(t, err)
}

// TestInferenceHelpers checks the custom format with stage prefixes and sorted fields
func TestInferenceHelpers(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, logging.LogLevelDebug, &buf)

	logger.LogDefinition("fan", 2, 3, nil)
	logger.LogRun("run-1", map[string]float64{"Temp": 75, "Humidity": 0.5}, nil)
	logger.LogRule("run-1", 1, "Temp Hot => Fan High", 0.5)
	logger.LogOutput("run-1", "Fan", 25.0/3.0, "High", true)
	logger.LogOutput("run-1", "Light", 0, "", false)
	require.NoError(t, logger.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "INFO [DEF] Definition loaded definition=fan rules=3 variables=2", lines[0])
	assert.Equal(t, "INFO [RUN] Inference run started inputs={Humidity:0.5 Temp:75} run_id=run-1", lines[1])
	assert.Equal(t, "DEBUG [RULE] Rule evaluated rule=1 run_id=run-1 strength=0.5 text=Temp Hot => Fan High", lines[2])
	assert.Equal(t, "INFO [OUTPUT] Output computed label=High run_id=run-1 value=8.333 variable=Fan", lines[3])
	assert.Equal(t, "WARNING [OUTPUT] No applicable rule run_id=run-1 variable=Light", lines[4])
}

// TestLogLevelFilter drops entries below the configured level
func TestLogLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, logging.LogLevelInfo, &buf)

	logger.Debug("hidden", nil)
	logger.Info("shown", map[string]interface{}{"k": "v"})
	require.NoError(t, logger.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO shown k=v")
}

// TestLongValuesTruncateOnRunes shortens long string fields without splitting characters
func TestLongValuesTruncateOnRunes(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, logging.LogLevelInfo, &buf)

	logger.Info("long", map[string]interface{}{"v": strings.Repeat("é", 100)})
	require.NoError(t, logger.Close())

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "INFO long v="+strings.Repeat("é", 80)+"...\n", out)
}

// TestJSONFormat writes one JSON object per line
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatJSON, logging.LogLevelInfo, &buf)

	logger.LogOutput("run-2", "Fan", 4.2, "Medium", true)
	require.NoError(t, logger.Close())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "Output computed", line["msg"])
	assert.Equal(t, "Medium", line["label"])
	assert.Equal(t, 4.2, line["value"])
	assert.Equal(t, "info", line["level"])
}

// TestCloseIsIdempotent stops the queue once and ignores later writes
func TestCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatText, logging.LogLevelInfo, &buf)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.Info("after close", nil)
	assert.NotContains(t, buf.String(), "after close")
}

// TestFileOutputRetention writes a log file and prunes the oldest ones
func TestFileOutputRetention(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"akaylee-fuzzy_2024-01-01_10-00-00.000.log",
		"akaylee-fuzzy_2024-01-01_11-00-00.000.log",
		"akaylee-fuzzy_2024-01-01_12-00-00.000.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	var console bytes.Buffer
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatText,
		OutputDir: dir,
		MaxFiles:  2,
		Console:   &console,
	})
	require.NoError(t, err)

	logger.Info("to file", map[string]interface{}{"at": time.Second})
	path := logger.FilePath()
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, console.String(), "to file")

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-fuzzy_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, path)
	assert.NotContains(t, files, filepath.Join(dir, "akaylee-fuzzy_2024-01-01_10-00-00.000.log"))
}

// TestGetLoggerSharesOutput lets the inference core log through the same logrus instance
func TestGetLoggerSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, logging.LogLevelDebug, &buf)
	defer logger.Close()

	logger.GetLogger().WithField("strength", 0.25).Debug("Rule evaluated")
	assert.Equal(t, logrus.DebugLevel, logger.GetLogger().GetLevel())
	assert.Equal(t, "DEBUG [RULE] Rule evaluated strength=0.25\n", buf.String())
}
