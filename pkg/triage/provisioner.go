package triage

import (
	"fmt"

	"triagectl/pkg/github"
)

// EnsureLabels makes sure every canonical label exists in the repository,
// creating the missing ones. Returns false with a nil error when the token
// lacks permission to read or create labels; the caller skips the whole
// repository in that case. Any other unexpected failure is returned as an
// error.
func EnsureLabels(client github.APIClient, owner, repo string) (bool, error) {
	for _, label := range CanonicalLabels {
		ok, err := ensureLabel(client, owner, repo, label)
		if err != nil {
			return false, err
		}
		if !ok {
			// No access to one label means no access to any of them
			return false, nil
		}
	}
	return true, nil
}

// ensureLabel checks one label and creates it when absent. Concurrent
// automation may create the label between the check and the create call;
// a conflict from the create is resolved by re-checking existence once.
func ensureLabel(client github.APIClient, owner, repo string, label github.Label) (bool, error) {
	_, err := client.GetLabel(owner, repo, label.Name)
	if err == nil {
		return true, nil
	}
	if github.IsPermission(err) {
		return false, nil
	}
	if !github.IsNotFound(err) {
		return false, fmt.Errorf("check label %s in %s/%s: %w", label.Name, owner, repo, err)
	}

	createErr := client.CreateLabel(owner, repo, label)
	if createErr == nil {
		return true, nil
	}
	if github.IsPermission(createErr) {
		return false, nil
	}
	if github.IsConflict(createErr) {
		// Lost the creation race; presence is all that matters
		if _, err := client.GetLabel(owner, repo, label.Name); err == nil {
			return true, nil
		}
	}
	return false, fmt.Errorf("create label %s in %s/%s: %w", label.Name, owner, repo, createErr)
}
