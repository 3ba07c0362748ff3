package triage

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"triagectl/pkg/github"
)

// RepoFilter restricts which of the owner's repositories are triaged
type RepoFilter struct {
	Prefix       string
	SkipArchived bool
	SkipForks    bool
}

// SelectRepositories enumerates the owner's repositories and applies the
// filter. The owner is tried as an organization first and as an individual
// user account second; the fallback matters because the Actions GITHUB_TOKEN
// may lack org-level read access. Only when every strategy fails does the
// selection fail. The result is sorted ascending by name so repeated runs
// process repositories in a stable order.
func SelectRepositories(client github.APIClient, owner string, filter RepoFilter, out io.Writer) ([]*github.Repository, error) {
	strategies := []struct {
		name string
		list func(string) ([]*github.Repository, error)
	}{
		{"org", client.ListOrgRepositories},
		{"user", client.ListUserRepositories},
	}

	var repos []*github.Repository
	listed := false

	for _, s := range strategies {
		result, err := s.list(owner)
		if err != nil {
			if github.IsNotFound(err) || github.IsPermission(err) {
				fmt.Fprintf(out, "  (info) %s listing for %s: %v\n", s.name, owner, err)
			} else {
				fmt.Fprintf(out, "  (warning) %s listing for %s: %v\n", s.name, owner, err)
			}
			continue
		}
		repos = result
		listed = true
		break
	}

	if !listed {
		return nil, fmt.Errorf("could not list repositories for %s: both org and user listings failed", owner)
	}

	repos = FilterRepositories(repos, filter)

	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})

	return repos, nil
}

// FilterRepositories applies the name-prefix, archived and fork filters
func FilterRepositories(repos []*github.Repository, filter RepoFilter) []*github.Repository {
	filtered := make([]*github.Repository, 0, len(repos))
	for _, r := range repos {
		if !strings.HasPrefix(r.Name, filter.Prefix) {
			continue
		}
		if filter.SkipArchived && r.Archived {
			continue
		}
		if filter.SkipForks && r.Fork {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
