/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for the Akaylee fuzzy inference engine. Loads system
definitions, runs inference on crisp inputs, inspects fuzzification and writes run reports,
configured through flags, a config file, FUZZY_ environment variables and a .env file.
*/

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kleascm/akaylee-fuzzy/cmd/fuzzy/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "akaylee-fuzzy",
		Short: "Akaylee Fuzzy - Mamdani fuzzy inference engine",
		Long: `Akaylee Fuzzy evaluates Mamdani fuzzy inference systems. A system is described
by a YAML or JSON definition listing linguistic variables, their fuzzy sets and the rules
that relate them. Crisp inputs are fuzzified, rules are evaluated with min/max/complement
logic, and each output is defuzzified into a crisp value with a human-readable label.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringP("definition", "d", "", "System definition file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().String("log-dir", "", "Log output directory (empty logs to the console only)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("definition", rootCmd.PersistentFlags().Lookup("definition"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))

	// Add run command
	runCmd := &cobra.Command{
		Use:   "run [name=value...]",
		Short: "Run inference on crisp inputs",
		Long: `Fuzzify the given crisp inputs, evaluate every rule and defuzzify each output
variable. Inputs are given as name=value pairs, either with --input or as arguments.
Input variables with a default value may be omitted.`,
		Example: "  akaylee-fuzzy run -d fan.yaml Temp=75",
		RunE:    commands.RunInference,
	}

	runCmd.Flags().StringArrayP("input", "i", []string{}, "Crisp input as name=value (repeatable)")
	runCmd.Flags().String("output-dir", "./reports", "Directory for run reports")
	runCmd.Flags().Bool("report", false, "Write a JSON run report to the output directory")
	runCmd.Flags().Bool("trace", false, "Log the engine's own fuzzification and defuzzification trace")
	runCmd.Flags().Bool("json", false, "Print the full result as JSON")

	viper.BindPFlag("run.output_dir", runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("run.report", runCmd.Flags().Lookup("report"))
	viper.BindPFlag("run.trace", runCmd.Flags().Lookup("trace"))
	viper.BindPFlag("run.json", runCmd.Flags().Lookup("json"))

	rootCmd.AddCommand(runCmd)

	// Add batch command
	batchCmd := &cobra.Command{
		Use:   "batch <cases-file>",
		Short: "Run inference on a file of input cases",
		Long: `Evaluate every case of a YAML or JSON cases file against the system in parallel.
The file lists cases as {cases: [{id: name, inputs: {Var: value}}]}. A failing case is
reported and does not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunBatch,
	}

	batchCmd.Flags().Int("workers", 0, "Number of parallel workers (0 = auto-detect)")
	batchCmd.Flags().String("output-dir", "./reports", "Directory for batch reports")
	batchCmd.Flags().Bool("report", false, "Write a JSON batch report to the output directory")

	viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("batch.output_dir", batchCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("batch.report", batchCmd.Flags().Lookup("report"))

	rootCmd.AddCommand(batchCmd)

	// Add validate command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate a system definition",
		Long: `Load a definition and build the fuzzy system from it, reporting the first invalid
variable, fuzzy set or rule. On success the variables, sets and rules are listed.`,
		Args: cobra.NoArgs,
		RunE: commands.ValidateDefinition,
	})

	// Add fuzzify command
	fuzzifyCmd := &cobra.Command{
		Use:   "fuzzify [name=value...]",
		Short: "Show membership degrees for crisp inputs",
		Long: `Fuzzify crisp inputs without evaluating rules and print the membership degree
of every fuzzy set of each input variable.`,
		RunE: commands.FuzzifyInputs,
	}
	fuzzifyCmd.Flags().StringArrayP("input", "i", []string{}, "Crisp input as name=value (repeatable)")
	rootCmd.AddCommand(fuzzifyCmd)

	// Add init command
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample system definition",
		Long: `Write a sample definition (room temperature to fan speed) to get started.
The path defaults to fuzzy.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.InitDefinition,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)

	return rootCmd
}
