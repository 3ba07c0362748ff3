//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeGitHub is a minimal in-memory GitHub API for end-to-end runs
type fakeGitHub struct {
	mu      sync.Mutex
	labels  map[string]bool     // "repo/label" -> exists
	applied map[string][]string // "repo#number" -> labels applied
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		labels:  make(map[string]bool),
		applied: make(map[string][]string),
	}
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "MMM. Keep it logically awesome.")
	})

	mux.HandleFunc("GET /orgs/testorg/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "name": "openclaw-a"},
			{"id": 2, "name": "openclaw-b", "archived": true},
			{"id": 3, "name": "other-x"},
		})
	})

	mux.HandleFunc("GET /repos/testorg/{repo}/labels/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		key := r.PathValue("repo") + "/" + r.PathValue("name")
		if !f.labels[key] {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": r.PathValue("name")})
	})

	mux.HandleFunc("POST /repos/testorg/{repo}/labels", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var label map[string]string
		if err := json.NewDecoder(r.Body).Decode(&label); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		f.labels[r.PathValue("repo")+"/"+label["name"]] = true
		writeJSON(w, http.StatusCreated, label)
	})

	mux.HandleFunc("GET /repos/testorg/openclaw-a/issues", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"number": 4, "title": "Fix crash in CI", "pull_request": map[string]string{"url": "pr"}},
			{"number": 3, "title": "Reflected XSS in search box", "body": "also crashes"},
			{"number": 2, "title": "Crash on startup", "labels": []map[string]string{{"name": "bug"}}},
			{"number": 1, "title": "Please add dark mode"},
		})
	})

	mux.HandleFunc("POST /repos/testorg/{repo}/issues/{number}/labels", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var labels []string
		if err := json.NewDecoder(r.Body).Decode(&labels); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		key := r.PathValue("repo") + "#" + r.PathValue("number")
		f.applied[key] = append(f.applied[key], labels...)
		writeJSON(w, http.StatusOK, []map[string]string{})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TestTriageRunEndToEnd drives the built binary against a fake GitHub API
func TestTriageRunEndToEnd(t *testing.T) {
	binaryPath := getBinaryPath(t)

	fake := newFakeGitHub()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	summaryPath := filepath.Join(t.TempDir(), "summary.md")

	cmd := exec.Command(binaryPath, "run")
	cmd.Env = append(environmentWithout("GITHUB_TOKEN", "TRIAGE_GH_TOKEN"),
		"GITHUB_TOKEN=test-token",
		"GITHUB_API_URL="+server.URL,
		"GH_OWNER=testorg",
		"REPO_PREFIX=openclaw-",
		"PER_REPO_LIMIT=30",
		"GITHUB_STEP_SUMMARY="+summaryPath,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		t.Fatalf("triagectl run failed: %v\nOutput: %s", err, out.String())
	}
	output := out.String()

	// openclaw-b is archived and other-x misses the prefix
	if !strings.Contains(output, "repos scanned: 1") {
		t.Errorf("Expected one scanned repo, got:\n%s", output)
	}
	if !strings.Contains(output, "labeled total: security=1, bug=0, needs-triage=1") {
		t.Errorf("Unexpected totals in:\n%s", output)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	// The three canonical labels were provisioned
	for _, name := range []string{"security", "bug", "needs-triage"} {
		if !fake.labels["openclaw-a/"+name] {
			t.Errorf("Label %s was not created", name)
		}
	}

	// The XSS issue got security, the feature request got needs-triage,
	// the already-labeled issue and the pull request were left alone
	if got := fake.applied["openclaw-a#3"]; len(got) != 1 || got[0] != "security" {
		t.Errorf("Issue #3: expected [security], got %v", got)
	}
	if got := fake.applied["openclaw-a#1"]; len(got) != 1 || got[0] != "needs-triage" {
		t.Errorf("Issue #1: expected [needs-triage], got %v", got)
	}
	if _, touched := fake.applied["openclaw-a#2"]; touched {
		t.Error("Issue #2 already carried bug and must not be relabeled")
	}
	if _, touched := fake.applied["openclaw-a#4"]; touched {
		t.Error("Pull request #4 must not be labeled")
	}

	// Job summary sink received the structured rendering
	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("Failed to read job summary: %v", err)
	}
	if !strings.Contains(string(summary), "## Issue triage (labeling-only)") {
		t.Errorf("Unexpected job summary:\n%s", summary)
	}
}

// TestTriageRunDryRunEndToEnd verifies dry-run performs no writes
func TestTriageRunDryRunEndToEnd(t *testing.T) {
	binaryPath := getBinaryPath(t)

	fake := newFakeGitHub()
	// Labels already provisioned so the run is read-only end to end
	for _, name := range []string{"security", "bug", "needs-triage"} {
		fake.labels["openclaw-a/"+name] = true
	}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	cmd := exec.Command(binaryPath, "run", "--dry-run")
	cmd.Env = append(environmentWithout("GITHUB_TOKEN", "TRIAGE_GH_TOKEN"),
		"GITHUB_TOKEN=test-token",
		"GITHUB_API_URL="+server.URL,
		"GH_OWNER=testorg",
		"REPO_PREFIX=openclaw-",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		t.Fatalf("triagectl run --dry-run failed: %v\nOutput: %s", err, out.String())
	}

	if !strings.Contains(out.String(), "(dry-run)") {
		t.Errorf("Expected dry-run marker in summary:\n%s", out.String())
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.applied) != 0 {
		t.Errorf("Dry-run must not apply labels, got %v", fake.applied)
	}
}
