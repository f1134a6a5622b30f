package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evalboard",
	Short: "Side-by-side comparison of experiment runs over a dataset",
	Long: `evalboard serves a comparison table for experiment runs.

Each row is a dataset example; each column is an experiment, showing every
repetition's output, latency, tokens, and cost side by side. Rows can be
filtered with a small condition language, e.g. "error is not None".`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
