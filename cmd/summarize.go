package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [notes]",
	Short: "Summarize lecture notes into bullet points",
	Long: `Summarize lecture notes into bullet points.

Notes are read from the argument, from --file, or from stdin when neither
is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		d, err := loadDeps(cmd, modeCLI)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.requireLLM(); err != nil {
			return err
		}

		sum, err := d.summarizer().Summarize(contextOf(cmd), notes)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum.Summary)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringP("file", "f", "", "Read notes from file")
}

// readInput returns the first argument, the --file contents, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
