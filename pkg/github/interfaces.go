package github

// APIClient defines the interface for the GitHub API operations the triage
// run needs. The only writes are label creation and label application.
type APIClient interface {
	// Repository listing
	ListOrgRepositories(org string) ([]*Repository, error)
	ListUserRepositories(user string) ([]*Repository, error)

	// Label operations
	GetLabel(owner, repo, name string) (*Label, error)
	CreateLabel(owner, repo string, label Label) error

	// Issue operations
	ListOpenIssues(owner, repo string, limit int) ([]*Issue, error)
	AddLabelsToIssue(owner, repo string, number int, labels []string) error
}
