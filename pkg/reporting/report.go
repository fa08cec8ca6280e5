/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Run reports for the Akaylee fuzzy tools. A report captures one inference run
(inputs, rule firing strengths, crisp outputs) under a unique run ID, with a small summary
of the activations, and is written as timestamped JSON under an output directory.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/montanaflynn/stats"
)

// RuleStrength is the firing strength of one rule in a run
type RuleStrength struct {
	Index    int     `json:"index"`
	Rule     string  `json:"rule"`
	Strength float64 `json:"strength"`
}

// Summary aggregates the rule strengths of a run
type Summary struct {
	RulesTotal  int     `json:"rules_total"`
	RulesFired  int     `json:"rules_fired"`
	MinStrength float64 `json:"min_strength"`
	MaxStrength float64 `json:"max_strength"`
	MeanFired   float64 `json:"mean_fired"` // mean strength over fired rules only
	Unresolved  int     `json:"unresolved"` // outputs with no applicable rule
}

// RunReport is the persisted record of a single inference run
type RunReport struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Definition  string             `json:"definition,omitempty"`
	Inputs      map[string]float64 `json:"inputs"`
	Rules       []RuleStrength     `json:"rules"`
	Outputs     []fuzzy.Output     `json:"outputs"`
	Summary     Summary            `json:"summary"`
}

// NewRunReport builds a report for result. rules must be the rule list the
// result was produced with, in the same order.
func NewRunReport(definition string, rules []fuzzy.Rule, result *fuzzy.Result) (*RunReport, error) {
	if len(rules) != len(result.Strengths) {
		return nil, fmt.Errorf("report needs %d rules, got %d", len(result.Strengths), len(rules))
	}

	report := &RunReport{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Definition:  definition,
		Inputs:      result.Inputs,
		Rules:       make([]RuleStrength, len(rules)),
		Outputs:     result.Outputs,
	}

	for i, rule := range rules {
		report.Rules[i] = RuleStrength{
			Index:    i + 1,
			Rule:     rule.String(),
			Strength: result.Strengths[i].Strength,
		}
	}

	summary, err := summarize(result)
	if err != nil {
		return nil, err
	}
	report.Summary = summary

	return report, nil
}

func summarize(result *fuzzy.Result) (Summary, error) {
	summary := Summary{RulesTotal: len(result.Strengths)}
	for _, out := range result.Outputs {
		if !out.Applicable {
			summary.Unresolved++
		}
	}
	if summary.RulesTotal == 0 {
		return summary, nil
	}

	all := make(stats.Float64Data, 0, len(result.Strengths))
	var fired stats.Float64Data
	for _, s := range result.Strengths {
		all = append(all, s.Strength)
		if s.Strength > 0 {
			fired = append(fired, s.Strength)
		}
	}
	summary.RulesFired = len(fired)

	var err error
	if summary.MinStrength, err = all.Min(); err != nil {
		return summary, fmt.Errorf("failed to summarize strengths: %w", err)
	}
	if summary.MaxStrength, err = all.Max(); err != nil {
		return summary, fmt.Errorf("failed to summarize strengths: %w", err)
	}
	if len(fired) > 0 {
		if summary.MeanFired, err = fired.Mean(); err != nil {
			return summary, fmt.Errorf("failed to summarize strengths: %w", err)
		}
	}
	return summary, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// WriteRunReport writes report to dir as JSON and returns the file path.
// Files are named 2024-06-11_01-30-00_<definition>_<run id prefix>.json.
func WriteRunReport(dir string, report *RunReport) (string, error) {
	return writeReport(dir, report.GeneratedAt, report.Definition, "", report.RunID, report)
}

// writeReport marshals v into a timestamped file under dir
func writeReport(dir string, at time.Time, definition, kind, runID string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := unsafeName.ReplaceAllString(definition, "-")
	if name == "" {
		name = "run"
	}
	if kind != "" {
		name += "_" + kind
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}

	timestamp := at.Format("2006-01-02_15-04-05")
	filePath := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", timestamp, name, runID))

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}

// ReadRunReport loads a report written by WriteRunReport
func ReadRunReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	report := &RunReport{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return report, nil
}
