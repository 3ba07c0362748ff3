package triage

import "strings"

// Keyword lists checked in fixed priority: security first, then bug. The
// order is load-bearing; a text matching both lists is security.
var securityKeywords = []string{
	"security",
	"cve",
	"vuln",
	"vulnerability",
	"xss",
	"ssrf",
	"csrf",
	"rce",
	"auth bypass",
	"token leak",
}

var bugKeywords = []string{
	"bug",
	"crash",
	"panic",
	"exception",
	"error",
	"failing",
	"test fails",
	"regression",
	"broken",
}

// Classify maps free text to one of the canonical label names using
// case-insensitive substring matching. Pure and deterministic.
func Classify(text string) string {
	t := strings.ToLower(text)

	for _, k := range securityKeywords {
		if strings.Contains(t, k) {
			return LabelSecurity
		}
	}
	for _, k := range bugKeywords {
		if strings.Contains(t, k) {
			return LabelBug
		}
	}
	return LabelNeedsTriage
}

// ClassifyIssue classifies an issue from its title and body. Either part may
// be empty.
func ClassifyIssue(title, body string) string {
	return Classify(title + "\n" + body)
}
