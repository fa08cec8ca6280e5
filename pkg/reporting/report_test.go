/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for run reports: summary statistics and writing/reading report files.
*/

package reporting_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-fuzzy/pkg/batch"
	"github.com/kleascm/akaylee-fuzzy/pkg/definition"
	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/kleascm/akaylee-fuzzy/pkg/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runExample(t *testing.T, temp float64) (*fuzzy.System, *fuzzy.Result) {
	t.Helper()
	sys, err := definition.Example().Build()
	require.NoError(t, err)
	result, err := sys.Run(map[string]float64{"Temp": temp})
	require.NoError(t, err)
	return sys, result
}

// TestNewRunReport summarizes the rule strengths of a run
func TestNewRunReport(t *testing.T) {
	sys, result := runExample(t, 30)

	report, err := reporting.NewRunReport("fan-controller", sys.Rules(), result)
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	require.Len(t, report.Rules, 3)
	assert.Equal(t, 1, report.Rules[0].Index)
	assert.Equal(t, "Temp Cold => Fan Low", report.Rules[0].Rule)

	// Temp=30: Cold 0.4, Warm 0.25, Hot 0
	assert.InDelta(t, 0.4, report.Rules[0].Strength, 1e-9)
	assert.InDelta(t, 0.25, report.Rules[1].Strength, 1e-9)
	assert.Equal(t, 0.0, report.Rules[2].Strength)

	assert.Equal(t, 3, report.Summary.RulesTotal)
	assert.Equal(t, 2, report.Summary.RulesFired)
	assert.Equal(t, 0.0, report.Summary.MinStrength)
	assert.InDelta(t, 0.4, report.Summary.MaxStrength, 1e-9)
	assert.InDelta(t, 0.325, report.Summary.MeanFired, 1e-9)
	assert.Equal(t, 0, report.Summary.Unresolved)
}

// TestNewRunReportRuleMismatch refuses a rule list of the wrong length
func TestNewRunReportRuleMismatch(t *testing.T) {
	sys, result := runExample(t, 30)
	_, err := reporting.NewRunReport("x", sys.Rules()[:1], result)
	assert.Error(t, err)
}

// TestWriteAndReadRunReport round-trips a report through a file
func TestWriteAndReadRunReport(t *testing.T) {
	sys := fuzzy.NewSystem()
	_, err := sys.AddVariable("Temp", fuzzy.RoleInput, fuzzy.Domain{Lo: 0, Hi: 100})
	require.NoError(t, err)
	require.NoError(t, sys.AddFuzzySet("Temp", "Hot", fuzzy.ShapeTriangular, []float64{60, 100, 100}))
	_, err = sys.AddVariable("Fan", fuzzy.RoleOutput, fuzzy.Domain{Lo: 0, Hi: 10})
	require.NoError(t, err)
	require.NoError(t, sys.AddFuzzySet("Fan", "High", fuzzy.ShapeTriangular, []float64{5, 10, 10}))
	require.NoError(t, sys.AddRule([]fuzzy.Token{fuzzy.Is("Temp", "Hot")}, fuzzy.Consequent{Variable: "Fan", Set: "High"}))

	result, err := sys.Run(map[string]float64{"Temp": 20})
	require.NoError(t, err)

	report, err := reporting.NewRunReport("hot/only", sys.Rules(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.RulesFired)
	assert.Equal(t, 0.0, report.Summary.MeanFired)
	assert.Equal(t, 1, report.Summary.Unresolved)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := reporting.WriteRunReport(dir, report)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_hot-only_"+report.RunID[:8]+".json"), path)

	got, err := reporting.ReadRunReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, report.Inputs, got.Inputs)
	assert.Equal(t, report.Rules, got.Rules)
	assert.Equal(t, report.Summary, got.Summary)
	require.Len(t, got.Outputs, 1)
	assert.False(t, got.Outputs[0].Applicable)

	_, err = reporting.ReadRunReport(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// TestWriteBatchReport stores batch statistics and per-case outcomes
func TestWriteBatchReport(t *testing.T) {
	sys, err := definition.Example().Build()
	require.NoError(t, err)

	finished, err := batch.NewRunner(sys, &batch.Config{Workers: 2}).Run(context.Background(), []batch.Case{
		{ID: "hot", Inputs: map[string]float64{"Temp": 75}},
		{ID: "off-scale", Inputs: map[string]float64{"Temp": 150}},
	})
	require.NoError(t, err)

	report := reporting.NewBatchReport("fan-controller", finished)
	dir := t.TempDir()
	path, err := reporting.WriteBatchReport(dir, report)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_fan-controller_batch_"+report.RunID[:8]+".json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got reporting.BatchReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, 1, got.Stats.Succeeded)
	assert.Equal(t, 1, got.Stats.Failed)
	require.Len(t, got.Cases, 2)
	assert.Equal(t, "hot", got.Cases[0].ID)
	assert.NotEmpty(t, got.Cases[1].Error)
	assert.InDelta(t, 25.0/3.0, got.Cases[0].Result.Outputs[0].Value, 1e-9)
}
