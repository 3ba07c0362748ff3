package triage

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// WriteSummary prints the human-readable run summary: repositories scanned,
// repositories skipped for lack of access, global counts and a per-repository
// breakdown restricted to repositories with at least one labeled issue.
func WriteSummary(w io.Writer, result *Result) {
	title := "triage summary"
	if result.DryRun {
		title = "triage summary (dry-run)"
	}
	fmt.Fprintf(w, "\n== %s ==\n", title)
	fmt.Fprintf(w, "repos scanned: %d\n", result.ReposScanned)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "repos skipped (no access): %d - %s\n", len(result.Skipped), strings.Join(result.Skipped, ", "))
		fmt.Fprintln(w, "  Hint: set TRIAGE_GH_TOKEN secret with a fine-grained PAT for cross-repo access.")
	}

	fmt.Fprintf(w, "labeled total: security=%d, bug=%d, needs-triage=%d\n",
		result.Total.Security, result.Total.Bug, result.Total.NeedsTriage)

	fmt.Fprintln(w, "\nPer repo:")
	for _, repo := range sortedRepoNames(result) {
		c := result.PerRepo[repo]
		if !c.Any() {
			continue
		}
		fmt.Fprintf(w, "- %s/%s: security=%d, bug=%d, needs-triage=%d\n",
			result.Owner, repo, c.Security, c.Bug, c.NeedsTriage)
	}
}

// WriteStepSummary appends a markdown rendering of the summary to w. Used
// with the GitHub Actions job summary file.
func WriteStepSummary(w io.Writer, result *Result) error {
	var b strings.Builder

	heading := "## Issue triage (labeling-only)"
	if result.DryRun {
		heading += " (dry-run)"
	}
	b.WriteString(heading + "\n\n")
	b.WriteString(fmt.Sprintf("Repos scanned: **%d**\n\n", result.ReposScanned))

	if len(result.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("Repos skipped (no access): **%d** - %s\n\n",
			len(result.Skipped), strings.Join(result.Skipped, ", ")))
	}

	b.WriteString(fmt.Sprintf("Labeled total: **security=%d**, **bug=%d**, **needs-triage=%d**\n\n",
		result.Total.Security, result.Total.Bug, result.Total.NeedsTriage))

	b.WriteString("### Per repo (non-zero)\n\n")
	for _, repo := range sortedRepoNames(result) {
		c := result.PerRepo[repo]
		if !c.Any() {
			continue
		}
		b.WriteString(fmt.Sprintf("- `%s/%s`: security=%d, bug=%d, needs-triage=%d\n",
			result.Owner, repo, c.Security, c.Bug, c.NeedsTriage))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// AppendStepSummary appends the structured summary to the job summary file
// at path. An empty path means no sink is configured, which is not an error.
func AppendStepSummary(path string, result *Result) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open job summary %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteStepSummary(f, result); err != nil {
		return fmt.Errorf("write job summary %s: %w", path, err)
	}
	return nil
}

func sortedRepoNames(result *Result) []string {
	names := make([]string, 0, len(result.PerRepo))
	for name := range result.PerRepo {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
