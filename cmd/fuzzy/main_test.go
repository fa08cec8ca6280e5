/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main_test.go
Description: End-to-end tests for the CLI: init, validate, fuzzify, run and batch against the
sample definition, configured by flags, environment and config file.
*/

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/kleascm/akaylee-fuzzy/pkg/reporting"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fan.yaml")
	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sample definition written to: "+path)
	return path
}

// TestInitRefusesOverwrite keeps an existing file unless forced
func TestInitRefusesOverwrite(t *testing.T) {
	path := writeExample(t)

	_, err := execute(t, "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--force", path)
	assert.NoError(t, err)
}

// TestRunCommand prints the crisp output and label for Temp=75
func TestRunCommand(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeExample(t)

	out, err := execute(t, "run", "-d", path, "Temp=75")
	require.NoError(t, err)
	assert.Contains(t, out, "Definition: fan-controller")
	assert.Contains(t, out, "Inputs: Temp=75")
	assert.Contains(t, out, "Fan = 8.3333 (High)")

	// --input is equivalent to positional pairs
	out, err = execute(t, "run", "-d", path, "--input", "Temp=75")
	require.NoError(t, err)
	assert.Contains(t, out, "Fan = 8.3333 (High)")
}

// TestRunJSON prints a machine-readable report
func TestRunJSON(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "run", "-d", path, "--json", "Temp=30")
	require.NoError(t, err)

	var report reporting.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "fan-controller", report.Definition)
	require.Len(t, report.Outputs, 1)
	assert.True(t, report.Outputs[0].Applicable)
	assert.Equal(t, 2, report.Summary.RulesFired)

	// 0.4 * Low(5/3) + 0.25 * Medium(5), divided by 0.65
	assert.InDelta(t, (0.4*5.0/3.0+0.25*5.0)/0.65, report.Outputs[0].Value, 1e-9)
}

// TestRunWritesReport saves a report file when asked
func TestRunWritesReport(t *testing.T) {
	path := writeExample(t)
	reports := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "run", "-d", path, "--report", "--output-dir", reports, "Temp=75")
	require.NoError(t, err)
	assert.Contains(t, out, "Report saved to:")

	files, err := filepath.Glob(filepath.Join(reports, "*_fan-controller_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	report, err := reporting.ReadRunReport(files[0])
	require.NoError(t, err)
	assert.InDelta(t, 25.0/3.0, report.Outputs[0].Value, 1e-9)
}

// TestRunErrors surfaces input and configuration failures
func TestRunErrors(t *testing.T) {
	path := writeExample(t)

	_, err := execute(t, "run", "-d", path)
	assert.ErrorIs(t, err, fuzzy.ErrMissingInput)

	_, err = execute(t, "run", "-d", path, "Temp=120")
	assert.ErrorIs(t, err, fuzzy.ErrOutOfDomain)

	_, err = execute(t, "run", "-d", path, "Temp=75", "Pressure=1")
	assert.ErrorIs(t, err, fuzzy.ErrUnknownVariable)

	_, err = execute(t, "run", "-d", path, "Temp")
	assert.ErrorContains(t, err, "want name=value")

	_, err = execute(t, "run", "Temp=75")
	assert.ErrorContains(t, err, "no definition given")

	_, err = execute(t, "run", "-d", path, "--log-format", "xml", "Temp=75")
	assert.ErrorContains(t, err, "unsupported log format")
}

// TestValidateCommand lists the system
func TestValidateCommand(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "validate", "-d", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Definition fan-controller is valid")
	assert.Contains(t, out, "Variables: 2, Rules: 3")
	assert.Contains(t, out, "TRAP(25, 45, 55, 75)")
	assert.Contains(t, out, "Temp Warm => Fan Medium")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variables: []\nrules: [\"Temp Hot => Fan High\"]\n"), 0644))
	_, err = execute(t, "validate", "-d", bad)
	assert.ErrorIs(t, err, fuzzy.ErrUnknownVariable)
}

// TestFuzzifyCommand prints membership degrees
func TestFuzzifyCommand(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "fuzzify", "-d", path, "-i", "Temp=30")
	require.NoError(t, err)
	assert.Contains(t, out, "Temp = 30")
	assert.Regexp(t, `Cold\s+0\.4000`, out)
	assert.Regexp(t, `Warm\s+0\.2500`, out)
	assert.Regexp(t, `Hot\s+0\.0000`, out)
}

// TestDefinitionFromEnvAndConfig reads the definition path without flags
func TestDefinitionFromEnvAndConfig(t *testing.T) {
	path := writeExample(t)

	t.Run("env", func(t *testing.T) {
		t.Setenv("FUZZY_DEFINITION", path)
		out, err := execute(t, "run", "Temp=75")
		require.NoError(t, err)
		assert.Contains(t, out, "Fan = 8.3333 (High)")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("definition: "+path+"\nrun:\n  json: true\n"), 0644))

		out, err := execute(t, "--config", cfg, "run", "Temp=75")
		require.NoError(t, err)

		var report reporting.RunReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.InDelta(t, 25.0/3.0, report.Outputs[0].Value, 1e-9)
	})
}

// TestBatchCommand evaluates a cases file and writes a batch report
func TestBatchCommand(t *testing.T) {
	path := writeExample(t)
	dir := t.TempDir()

	cases := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(cases, []byte(
		"cases:\n"+
			"  - {id: hot, inputs: {Temp: 75}}\n"+
			"  - {id: mild, inputs: {Temp: 50}}\n"+
			"  - {id: broken, inputs: {Temp: 500}}\n"), 0644))

	reports := filepath.Join(dir, "reports")
	out, err := execute(t, "batch", "-d", path, "--workers", "2", "--report", "--output-dir", reports, cases)
	require.NoError(t, err)
	assert.Contains(t, out, "Cases: 3, Workers: 2")
	assert.Contains(t, out, "Fan=8.3333 (High)")
	assert.Contains(t, out, "Fan=5.0000 (Medium)")
	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "Succeeded: 2, Failed: 1, Unresolved: 0")

	files, err := filepath.Glob(filepath.Join(reports, "*_fan-controller_batch_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = execute(t, "batch", "-d", path, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
