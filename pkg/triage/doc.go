// Package triage implements labeling-only issue triage across the
// repositories of a single owner. Each run selects repositories by name
// prefix, provisions the three canonical labels, classifies every untriaged
// open issue by keyword matching and applies exactly one label per issue.
//
// Safety properties, enforced here rather than assumed:
// - no commits, branches or pull requests are ever created
// - the only writes are label creation and label application
// - existing labels are never removed
package triage
