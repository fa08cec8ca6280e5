/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: init.go
Description: Init command. Writes the sample temperature/fan definition to start from.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-fuzzy/pkg/definition"
	"github.com/spf13/cobra"
)

const defaultDefinitionPath = "fuzzy.yaml"

// InitDefinition writes the sample definition to args[0] or fuzzy.yaml
func InitDefinition(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := defaultDefinitionPath
	if len(args) > 0 {
		path = args[0]
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	doc := definition.Example()
	if err := doc.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(out, "💾 Sample definition written to: %s\n", path)
	fmt.Fprintf(out, "   Try: akaylee-fuzzy run -d %s Temp=75\n", path)
	return nil
}
