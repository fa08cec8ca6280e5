/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: batch.go
Description: Batch command implementation. Evaluates a file of input cases against one
system with a worker pool, prints per-case outputs and batch statistics, and optionally
writes a JSON batch report. Interrupts cancel the batch.
*/

package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kleascm/akaylee-fuzzy/pkg/batch"
	"github.com/kleascm/akaylee-fuzzy/pkg/reporting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunBatch evaluates every case in the given cases file
func RunBatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	cases, err := batch.LoadCases(args[0])
	if err != nil {
		return err
	}

	doc, sys, err := loadSystem(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(sys, &batch.Config{
		Workers: viper.GetInt("batch.workers"),
		Logger:  logger.GetLogger(),
	})

	fmt.Fprintln(out, "🌀 Akaylee Fuzzy - Batch")
	fmt.Fprintln(out, "========================")
	fmt.Fprintf(out, "📄 Definition: %s\n", displayName(doc.Name))
	fmt.Fprintf(out, "📦 Cases: %d, Workers: %d\n", len(cases), min(runner.Workers(), len(cases)))
	fmt.Fprintln(out)

	finished, err := runner.Run(ctx, cases)
	if err != nil {
		return err
	}

	for _, res := range finished.Cases {
		name := res.ID
		if name == "" {
			name = fmt.Sprintf("#%d", res.Index+1)
		}
		if res.Err() != nil {
			fmt.Fprintf(out, "  ❌ %-12s %v\n", name, res.Err())
			continue
		}
		fmt.Fprintf(out, "  ✅ %-12s %s ->", name, formatInputs(res.Result.Inputs))
		for _, o := range res.Result.Outputs {
			if !o.Applicable {
				fmt.Fprintf(out, " %s: no applicable rule", o.Variable)
				continue
			}
			fmt.Fprintf(out, " %s=%.4f (%s)", o.Variable, o.Value, o.Label)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)

	s := finished.Stats
	fmt.Fprintln(out, "📊 Statistics:")
	fmt.Fprintf(out, "  Succeeded: %d, Failed: %d, Unresolved: %d\n", s.Succeeded, s.Failed, s.Unresolved)
	fmt.Fprintf(out, "  Duration: mean %v, p95 %v\n", s.MeanDuration, s.P95Duration)
	for _, v := range sys.Variables() {
		o, ok := s.Outputs[v.Name]
		if !ok || o.Count == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s: min %.4f, max %.4f, mean %.4f, stddev %.4f (%d cases)\n",
			v.Name, o.Min, o.Max, o.Mean, o.StdDev, o.Count)
	}

	if viper.GetBool("batch.report") {
		report := reporting.NewBatchReport(doc.Name, finished)
		path, err := reporting.WriteBatchReport(viper.GetString("batch.output_dir"), report)
		if err != nil {
			return err
		}
		logger.Info("Report written", map[string]interface{}{
			"run_id": report.RunID,
			"path":   path,
		})
		fmt.Fprintf(out, "\n💾 Report saved to: %s\n", path)
	}

	fmt.Fprintf(out, "\n✨ Batch completed in %v\n", finished.Elapsed)
	return nil
}
