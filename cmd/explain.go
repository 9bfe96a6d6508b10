package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <topic>",
	Short: "Explain a topic with examples",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, modeCLI)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.requireLLM(); err != nil {
			return err
		}

		e, err := d.explainer().Explain(contextOf(cmd), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.Explanation)
		return nil
	},
}
