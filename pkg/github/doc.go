// Package github is the transport boundary between triagectl and the GitHub
// REST API. It wraps go-github behind a small APIClient interface and maps raw
// HTTP failures into a typed error taxonomy so the triage core can branch on
// permission-denied, not-found and conflict outcomes without ever inspecting
// status codes.
//
// The package includes:
// - APIClient interface covering the six operations a triage run performs
// - Client, the go-github backed implementation with full pagination
// - GitHubError and the ErrorType taxonomy with Is* predicates
// - AuthManager resolving the token from environment or config file
package github
