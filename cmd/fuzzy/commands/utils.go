/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee fuzzy commands. Provides configuration
loading, logging setup, definition loading and parsing of name=value inputs.
*/

package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kleascm/akaylee-fuzzy/pkg/definition"
	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/kleascm/akaylee-fuzzy/pkg/logging"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// FUZZY_LOG_LEVEL, FUZZY_RUN_REPORT, ...
	viper.SetEnvPrefix("FUZZY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging creates the command logger from the current configuration.
// Callers must Close it.
func SetupLogging() (*logging.Logger, error) {
	config := logging.DefaultLoggerConfig()
	config.Level = logging.LogLevel(strings.ToLower(viper.GetString("log_level")))
	config.Format = logging.LogFormat(strings.ToLower(viper.GetString("log_format")))
	config.OutputDir = viper.GetString("log_dir")
	config.MaxFiles = viper.GetInt("log_max_files")
	config.Console = os.Stderr

	if viper.GetBool("json_logs") {
		config.Format = logging.LogFormatJSON
	}
	if config.Format == logging.LogFormatJSON {
		config.Colors = false
	}

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	return logger, nil
}

// loadSystem reads the configured definition and builds its system
func loadSystem(logger *logging.Logger, opts ...fuzzy.Option) (*definition.Document, *fuzzy.System, error) {
	path := viper.GetString("definition")
	if path == "" {
		return nil, nil, fmt.Errorf("no definition given (use --definition or FUZZY_DEFINITION)")
	}

	doc, err := definition.Load(path)
	if err != nil {
		return nil, nil, err
	}

	sys, err := doc.Build(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid definition %s: %w", path, err)
	}

	logger.LogDefinition(doc.Name, len(doc.Variables), len(doc.Rules), map[string]interface{}{
		"path": path,
	})
	return doc, sys, nil
}

// parseInputs turns name=value pairs into crisp inputs
func parseInputs(pairs []string) (map[string]float64, error) {
	inputs := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid input %q (want name=value)", pair)
		}
		if _, dup := inputs[name]; dup {
			return nil, fmt.Errorf("input %s given more than once", name)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		inputs[name] = value
	}
	return inputs, nil
}

// formatInputs renders inputs as name=value pairs sorted by name
func formatInputs(inputs map[string]float64) string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, inputs[name]))
	}
	return strings.Join(parts, " ")
}
