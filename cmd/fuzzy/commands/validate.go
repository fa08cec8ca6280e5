/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Definition validation command. Builds the system from a definition and lists
its variables, fuzzy sets and rules.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateDefinition checks that the configured definition builds a valid system
func ValidateDefinition(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	doc, sys, err := loadSystem(logger)
	if err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return err
	}

	variables := sys.Variables()
	rules := sys.Rules()

	fmt.Fprintf(out, "✅ Definition %s is valid\n", displayName(doc.Name))
	if doc.Description != "" {
		fmt.Fprintf(out, "   %s\n", doc.Description)
	}
	fmt.Fprintf(out, "📊 Variables: %d, Rules: %d\n", len(variables), len(rules))
	fmt.Fprintln(out)

	for _, v := range variables {
		fmt.Fprintf(out, "  %-3s %s %s", v.Role, v.Name, v.Domain)
		if d, ok := v.Default(); ok {
			fmt.Fprintf(out, " default=%g", d)
		}
		fmt.Fprintln(out)

		sets := v.Sets()
		if len(sets) == 0 {
			fmt.Fprintln(out, "      ⚠️  no fuzzy sets")
		}
		for _, set := range sets {
			fmt.Fprintf(out, "      %-12s %v\n", set.Name, set.Shape)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📏 Rules:")
	if len(rules) == 0 {
		fmt.Fprintln(out, "  ⚠️  no rules, every output will have no applicable rule")
	}
	for i, rule := range rules {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, rule)
	}

	return nil
}
