package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evalboard/evalboard/internal/predicate"
)

var checkCmd = &cobra.Command{
	Use:   "check <condition>",
	Short: "Validate a filter condition offline",
	Long: `Validate a filter condition without starting the server.

Examples:
  evalboard check 'error is not None'
  evalboard check 'latency_ms > 2000 and output contains "refund"'`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ok, msg := predicate.Validate(args[0])
	if ok {
		fmt.Println("valid")
		return nil
	}

	fmt.Fprintf(os.Stderr, "invalid: %s\n\n", msg)
	fmt.Fprintln(os.Stderr, "Available fields:")
	for _, sug := range predicate.Suggest("") {
		if sug.Doc != "" {
			fmt.Fprintf(os.Stderr, "  %-20s %s\n", sug.Text, sug.Doc)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", sug.Text)
		}
	}
	os.Exit(1)
	return nil
}
