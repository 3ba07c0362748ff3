package triage

import "triagectl/pkg/github"

// Canonical label names. This set is closed: no other label is ever created
// or consulted.
const (
	LabelSecurity    = "security"
	LabelBug         = "bug"
	LabelNeedsTriage = "needs-triage"
)

// CanonicalLabels is the fixed set of labels provisioned in every target
// repository, in provisioning order.
var CanonicalLabels = []github.Label{
	{Name: LabelSecurity, Color: "b60205", Description: "Security-related issue"},
	{Name: LabelBug, Color: "d73a4a", Description: "Something isn't working"},
	{Name: LabelNeedsTriage, Color: "ededed", Description: "Needs initial triage"},
}
