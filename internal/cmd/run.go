package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triagectl/pkg/config"
	"triagectl/pkg/github"
	"triagectl/pkg/triage"
)

var (
	runOwner  string
	runPrefix string
	runLimit  int
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one triage pass over the selected repositories",
	Long: `Run one complete triage pass.

The owner's repositories are listed (as an organization first, falling back
to an individual user account), filtered by name prefix and by the archived
and fork flags, and processed one at a time in name order. In each repository
the three canonical labels are provisioned, then up to the configured number
of most recently created open issues are classified by keyword matching and
labeled. Issues already carrying the bug or security label are left alone, so
repeated runs are idempotent.

A repository the token cannot manage labels in is skipped gracefully and
listed in the final summary. The run exits zero even when repositories were
skipped for access reasons.

Configuration comes from ~/.triagectl/config.yaml, overridden by the
GH_OWNER, REPO_PREFIX, PER_REPO_LIMIT, SKIP_ARCHIVED and SKIP_FORKS
environment variables, overridden by flags. The token is read from
TRIAGE_GH_TOKEN, then GITHUB_TOKEN, then the config file.

Examples:
  triagectl run
  triagectl run --owner myorg --prefix service- --limit 50
  triagectl run --dry-run`,
	RunE: runTriage,
}

func init() {
	runCmd.Flags().StringVar(&runOwner, "owner", "", "Org or user whose repositories are triaged")
	runCmd.Flags().StringVar(&runPrefix, "prefix", "", "Repository name prefix filter (case-sensitive)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Max open issues to consider per repository")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Classify and report without applying any labels")
}

func runTriage(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags win over environment and config file
	if runOwner != "" {
		cfg.Triage.Owner = runOwner
	}
	if runPrefix != "" {
		cfg.Triage.RepoPrefix = runPrefix
	}
	if runLimit > 0 {
		cfg.Triage.PerRepoLimit = runLimit
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	authManager := github.NewAuthManager()
	tokenInfo, err := authManager.ResolveToken(cfg)
	if err != nil {
		fmt.Println(github.GetAuthInstructions())
		return err
	}

	fmt.Printf("token source: %s\n", tokenInfo.Source)
	if tokenInfo.Source == "GITHUB_TOKEN" {
		fmt.Println("[WARN] Using GITHUB_TOKEN - cross-repo labeling may be skipped without TRIAGE_GH_TOKEN.")
	}

	client := github.NewClient(tokenInfo.Token)
	if err := client.CheckAuth(); err != nil {
		return fmt.Errorf("auth check failed: %w", err)
	}

	driver := triage.NewDriver(client, triage.Options{
		Owner:        cfg.Owner(),
		RepoPrefix:   cfg.RepoPrefix(),
		PerRepoLimit: cfg.PerRepoLimit(),
		SkipArchived: cfg.SkipArchived(),
		SkipForks:    cfg.SkipForks(),
		DryRun:       runDryRun,
	})

	result, err := driver.Run()
	if err != nil {
		return err
	}

	triage.WriteSummary(os.Stdout, result)

	if err := triage.AppendStepSummary(os.Getenv("GITHUB_STEP_SUMMARY"), result); err != nil {
		return err
	}

	return nil
}
