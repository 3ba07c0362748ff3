package github

import (
	"fmt"
	"os"
	"strings"

	"triagectl/pkg/config"
)

// TokenInfo describes where the token in use came from
type TokenInfo struct {
	Token  string
	Source string
}

// AuthManager handles GitHub authentication
type AuthManager struct{}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// ResolveToken retrieves the GitHub token. TRIAGE_GH_TOKEN is preferred over
// GITHUB_TOKEN so a fine-grained PAT can override the Actions default token;
// the config file is the last resort. Fails before any network call when no
// token is configured.
func (am *AuthManager) ResolveToken(cfg *config.Config) (*TokenInfo, error) {
	if token := os.Getenv("TRIAGE_GH_TOKEN"); token != "" {
		return &TokenInfo{Token: strings.TrimSpace(token), Source: "TRIAGE_GH_TOKEN"}, nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &TokenInfo{Token: strings.TrimSpace(token), Source: "GITHUB_TOKEN"}, nil
	}

	if cfg != nil && cfg.GitHub.Token != "" {
		return &TokenInfo{Token: strings.TrimSpace(cfg.GitHub.Token), Source: "config file"}, nil
	}

	return nil, fmt.Errorf("no GitHub token found: set GITHUB_TOKEN (or TRIAGE_GH_TOKEN override), or configure token in ~/.triagectl/config.yaml")
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_personal_access_token"

   In GitHub Actions the built-in GITHUB_TOKEN works for same-repo labeling.
   For cross-repo labeling set a TRIAGE_GH_TOKEN secret holding a
   fine-grained personal access token; it takes precedence when present.

2. Configuration File:
   Add the following to ~/.triagectl/config.yaml:

   github:
     token: "your_personal_access_token"

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Generate a fine-grained token with access to the repositories to triage
3. Grant it Issues: Read and write and Metadata: Read-only

Note: labeling issues requires write access to issues on each repository.`
}
