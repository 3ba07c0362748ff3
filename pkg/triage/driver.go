package triage

import (
	"fmt"
	"io"
	"os"

	"triagectl/pkg/github"
)

// Counts tallies how many issues were labeled per category
type Counts struct {
	Security    int `json:"security"`
	Bug         int `json:"bug"`
	NeedsTriage int `json:"needs_triage"`
}

// Add increments the counter matching the label name
func (c *Counts) Add(label string) {
	switch label {
	case LabelSecurity:
		c.Security++
	case LabelBug:
		c.Bug++
	case LabelNeedsTriage:
		c.NeedsTriage++
	}
}

// Total returns the number of labeled issues across all categories
func (c Counts) Total() int {
	return c.Security + c.Bug + c.NeedsTriage
}

// Any reports whether at least one issue was labeled
func (c Counts) Any() bool {
	return c.Total() > 0
}

// Options configures a triage run
type Options struct {
	Owner        string
	RepoPrefix   string
	PerRepoLimit int
	SkipArchived bool
	SkipForks    bool
	DryRun       bool
}

// Result accumulates the outcome of one triage run. Created at run start,
// discarded after reporting; nothing persists between runs.
type Result struct {
	Owner        string
	DryRun       bool
	ReposScanned int
	Skipped      []string
	Total        Counts
	PerRepo      map[string]Counts
}

// Driver orchestrates a triage run: repository selection, label
// provisioning, issue classification and label application, one repository
// at a time, one issue at a time.
type Driver struct {
	client github.APIClient
	opts   Options
	out    io.Writer
}

// NewDriver creates a driver writing progress to stdout
func NewDriver(client github.APIClient, opts Options) *Driver {
	return &Driver{
		client: client,
		opts:   opts,
		out:    os.Stdout,
	}
}

// SetOutput redirects progress output, used by tests
func (d *Driver) SetOutput(w io.Writer) {
	d.out = w
}

// Run executes one complete triage run. A repository that fails with an
// unexpected error is recorded in the skip list and the run continues with
// the remaining repositories; only setup failures (listing repositories)
// abort the run.
func (d *Driver) Run() (*Result, error) {
	filter := RepoFilter{
		Prefix:       d.opts.RepoPrefix,
		SkipArchived: d.opts.SkipArchived,
		SkipForks:    d.opts.SkipForks,
	}

	repos, err := SelectRepositories(d.client, d.opts.Owner, filter, d.out)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Owner:        d.opts.Owner,
		DryRun:       d.opts.DryRun,
		ReposScanned: len(repos),
		PerRepo:      make(map[string]Counts, len(repos)),
	}

	for _, repo := range repos {
		result.PerRepo[repo.Name] = Counts{}

		if err := d.processRepository(repo.Name, result); err != nil {
			// Never let a single repository crash the entire run
			fmt.Fprintf(d.out, "  [ERROR] %s/%s: %v\n", d.opts.Owner, repo.Name, err)
			result.Skipped = append(result.Skipped, repo.Name)
		}
	}

	return result, nil
}

func (d *Driver) processRepository(repo string, result *Result) error {
	owner := d.opts.Owner

	hasAccess, err := EnsureLabels(d.client, owner, repo)
	if err != nil {
		return err
	}
	if !hasAccess {
		fmt.Fprintf(d.out, "  [SKIP] %s/%s: insufficient permissions (cannot manage labels)\n", owner, repo)
		result.Skipped = append(result.Skipped, repo)
		return nil
	}

	issues, err := d.client.ListOpenIssues(owner, repo, d.opts.PerRepoLimit)
	if err != nil {
		if github.IsPermission(err) {
			fmt.Fprintf(d.out, "  [SKIP] %s/%s: insufficient permissions to list issues\n", owner, repo)
			result.Skipped = append(result.Skipped, repo)
			return nil
		}
		return err
	}

	// Written back on every exit so applications confirmed before a later
	// failure stay visible in the per-repo breakdown
	counts := result.PerRepo[repo]
	defer func() { result.PerRepo[repo] = counts }()

	for _, issue := range issues {
		// The issues endpoint conflates issues and pull requests
		if issue.PullRequest {
			continue
		}

		// Already triaged in an earlier run; first write wins
		if issue.HasLabel(LabelBug) || issue.HasLabel(LabelSecurity) {
			continue
		}

		label := ClassifyIssue(issue.Title, issue.Body)

		if d.opts.DryRun {
			fmt.Fprintf(d.out, "  [DRY-RUN] would label %s/%s#%d as %s\n", owner, repo, issue.Number, label)
			counts.Add(label)
			result.Total.Add(label)
			continue
		}

		if err := d.client.AddLabelsToIssue(owner, repo, issue.Number, []string{label}); err != nil {
			if github.IsPermission(err) {
				fmt.Fprintf(d.out, "  [WARN] %s/%s#%d: no permission to add labels\n", owner, repo, issue.Number)
				continue
			}
			return err
		}

		// Count only confirmed applications
		counts.Add(label)
		result.Total.Add(label)
	}

	return nil
}
