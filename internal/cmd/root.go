package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triagectl",
	Short: "Labeling-only issue triage across GitHub repositories",
	Long: `Triagectl scans the repositories of a single GitHub owner and applies one
of three labels (security, bug, needs-triage) to every untriaged open issue,
based on keyword matching against title and body.

It never creates commits, branches or pull requests, and never removes an
existing label. The only writes it performs are label creation and label
application.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(initCmd)
}
