package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// maxPerPage is the largest page size the GitHub API allows
const maxPerPage = 100

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	ctx    context.Context
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)

	// GitHub Actions exports GITHUB_API_URL; honoring it keeps the tool
	// working on GitHub Enterprise Server
	if base := os.Getenv("GITHUB_API_URL"); base != "" {
		if u, err := url.Parse(strings.TrimSuffix(base, "/") + "/"); err == nil {
			client.BaseURL = u
		}
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}
}

// CheckAuth verifies the token can reach the API at all. The meta endpoint is
// used instead of /user because GitHub Actions installation tokens have no
// user-level access.
func (c *Client) CheckAuth() error {
	return WithRetry(func() error {
		_, _, err := c.client.Meta.Octocat(c.ctx, "")
		if err != nil {
			return WrapGitHubError(err, "auth check")
		}
		return nil
	}, DefaultRetryConfig())
}

// ListOrgRepositories lists all repositories of an organization, following
// pagination to the end. Query parameters are set on the first page only; the
// continuation pages are addressed by the next-page cursor from the response.
func (c *Client) ListOrgRepositories(org string) ([]*Repository, error) {
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	}

	var allRepos []*Repository

	err := WithRetry(func() error {
		allRepos = nil // Reset on retry
		opts.Page = 0  // Reset pagination on retry

		for {
			repos, resp, err := c.client.Repositories.ListByOrg(c.ctx, org, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("repositories of org %s", org))
			}

			for _, repo := range repos {
				allRepos = append(allRepos, convertGitHubRepository(repo))
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allRepos, err
}

// ListUserRepositories lists all repositories of an individual user account,
// following pagination to the end.
func (c *Client) ListUserRepositories(user string) ([]*Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	}

	var allRepos []*Repository

	err := WithRetry(func() error {
		allRepos = nil // Reset on retry
		opts.Page = 0  // Reset pagination on retry

		for {
			repos, resp, err := c.client.Repositories.ListByUser(c.ctx, user, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("repositories of user %s", user))
			}

			for _, repo := range repos {
				allRepos = append(allRepos, convertGitHubRepository(repo))
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allRepos, err
}

// GetLabel retrieves a label by name from a repository
func (c *Client) GetLabel(owner, repo, name string) (*Label, error) {
	var label *github.Label

	err := WithRetry(func() error {
		var err error
		label, _, err = c.client.Issues.GetLabel(c.ctx, owner, repo, name)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("label %s in %s/%s", name, owner, repo))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return &Label{
		Name:        label.GetName(),
		Color:       label.GetColor(),
		Description: label.GetDescription(),
	}, nil
}

// CreateLabel creates a label in a repository
func (c *Client) CreateLabel(owner, repo string, label Label) error {
	ghLabel := &github.Label{
		Name:        github.String(label.Name),
		Color:       github.String(label.Color),
		Description: github.String(label.Description),
	}

	return WithRetry(func() error {
		_, _, err := c.client.Issues.CreateLabel(c.ctx, owner, repo, ghLabel)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("label %s in %s/%s", label.Name, owner, repo))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListOpenIssues lists up to limit open issues of a repository, most recently
// created first. The issues endpoint conflates issues and pull requests;
// entries that are pull requests come back with PullRequest set and it is the
// caller's job to drop them.
func (c *Client) ListOpenIssues(owner, repo string, limit int) ([]*Issue, error) {
	perPage := limit
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var allIssues []*Issue

	err := WithRetry(func() error {
		allIssues = nil // Reset on retry
		opts.Page = 0   // Reset pagination on retry

		for {
			issues, resp, err := c.client.Issues.ListByRepo(c.ctx, owner, repo, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("issues of %s/%s", owner, repo))
			}

			for _, issue := range issues {
				allIssues = append(allIssues, convertGitHubIssue(issue))
				if len(allIssues) >= limit {
					return nil
				}
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allIssues, err
}

// AddLabelsToIssue appends labels to an issue. Existing labels are untouched;
// adding an already-present label is a no-op on the API side.
func (c *Client) AddLabelsToIssue(owner, repo string, number int, labels []string) error {
	return WithRetry(func() error {
		_, _, err := c.client.Issues.AddLabelsToIssue(c.ctx, owner, repo, number, labels)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("labels for issue %s/%s#%d", owner, repo, number))
		}
		return nil
	}, DefaultRetryConfig())
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		Archived: repo.GetArchived(),
		Fork:     repo.GetFork(),
	}
}

// convertGitHubIssue converts a GitHub API issue to our internal type.
// Absent title or body come back as empty strings.
func convertGitHubIssue(issue *github.Issue) *Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return &Issue{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		Labels:      labels,
		PullRequest: issue.IsPullRequest(),
	}
}
