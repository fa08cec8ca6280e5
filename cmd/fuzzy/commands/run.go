/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: run.go
Description: Inference command implementation. Loads a definition, runs the fuzzy system
on crisp inputs, prints rule strengths and crisp outputs, and optionally writes a JSON
run report.
*/

package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/kleascm/akaylee-fuzzy/pkg/reporting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunInference runs the configured system on the given inputs
func RunInference(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	flagInputs, err := cmd.Flags().GetStringArray("input")
	if err != nil {
		return err
	}
	inputs, err := parseInputs(append(flagInputs, args...))
	if err != nil {
		return err
	}

	trace := viper.GetBool("run.trace")
	var opts []fuzzy.Option
	if trace {
		opts = append(opts, fuzzy.WithLogger(logger.GetLogger()))
	}

	doc, sys, err := loadSystem(logger, opts...)
	if err != nil {
		return err
	}
	rules := sys.Rules()

	startTime := time.Now()
	result, err := sys.Run(inputs)
	if err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	elapsed := time.Since(startTime)

	report, err := reporting.NewRunReport(doc.Name, rules, result)
	if err != nil {
		return err
	}

	logger.LogRun(report.RunID, result.Inputs, map[string]interface{}{
		"duration": elapsed,
	})
	if !trace {
		for _, rule := range report.Rules {
			logger.LogRule(report.RunID, rule.Index, rule.Rule, rule.Strength)
		}
	}
	for _, o := range result.Outputs {
		logger.LogOutput(report.RunID, o.Variable, o.Value, o.Label, o.Applicable)
	}

	var reportPath string
	if viper.GetBool("run.report") {
		reportPath, err = reporting.WriteRunReport(viper.GetString("run.output_dir"), report)
		if err != nil {
			return err
		}
		logger.Info("Report written", map[string]interface{}{
			"run_id": report.RunID,
			"path":   reportPath,
		})
	}

	if viper.GetBool("run.json") {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, "🌀 Akaylee Fuzzy - Inference")
	fmt.Fprintln(out, "============================")
	fmt.Fprintf(out, "📄 Definition: %s\n", displayName(doc.Name))
	fmt.Fprintf(out, "🎯 Inputs: %s\n", formatInputs(result.Inputs))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📏 Rule strengths:")
	for _, rule := range report.Rules {
		fmt.Fprintf(out, "  %2d. %-50s %.4f\n", rule.Index, rule.Rule, rule.Strength)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📋 Outputs:")
	for _, o := range result.Outputs {
		if !o.Applicable {
			fmt.Fprintf(out, "  ⚠️  %s: no applicable rule\n", o.Variable)
			continue
		}
		fmt.Fprintf(out, "  %s = %.4f (%s)\n", o.Variable, o.Value, o.Label)
	}

	if reportPath != "" {
		fmt.Fprintf(out, "\n💾 Report saved to: %s\n", reportPath)
	}
	fmt.Fprintf(out, "\n✨ Inference completed in %v\n", elapsed)

	return nil
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
