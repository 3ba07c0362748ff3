package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"triagectl/pkg/triage"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>...",
	Short: "Classify text into security, bug or needs-triage",
	Long: `Classify free text the way the triage run classifies an issue, without
touching the network. Useful for checking which label an issue title would
receive before running a triage pass.

Examples:
  triagectl classify "Crash caused by XSS"
  triagectl classify App crashes on startup`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(triage.Classify(strings.Join(args, " ")))
	},
}
