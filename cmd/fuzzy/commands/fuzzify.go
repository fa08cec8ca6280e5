/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fuzzify.go
Description: Fuzzification command. Prints the membership degree of every fuzzy set of
each input variable for the given crisp inputs.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const barWidth = 20

// FuzzifyInputs prints membership degrees for the given inputs
func FuzzifyInputs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

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

	_, sys, err := loadSystem(logger)
	if err != nil {
		return err
	}

	fuzzified, err := sys.Fuzzify(inputs)
	if err != nil {
		return fmt.Errorf("fuzzification failed: %w", err)
	}

	for _, v := range sys.Variables() {
		degrees, ok := fuzzified[v.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "🎯 %s = %g\n", v.Name, inputs[v.Name])
		for _, set := range v.Sets() {
			degree := degrees[set.Name]
			fmt.Fprintf(out, "  %-12s %.4f %s\n", set.Name, degree, bar(degree))
		}
	}

	return nil
}

func bar(degree float64) string {
	n := int(degree*barWidth + 0.5)
	return "[" + strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n) + "]"
}
