package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio/internal/config"
)

func TestDeployCommand(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg = &config.Config{GitHubToken: "ghp-test", GitHubOwner: "jane", GitHubRepo: "site", GitHubAPIURL: srv.URL}
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	deployCmd.SetOut(&out)
	deployCmd.SetContext(context.Background())
	t.Cleanup(func() { deployCmd.SetOut(nil) })

	if err := deployCmd.RunE(deployCmd, nil); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if gotPath != "/repos/jane/site/dispatches" {
		t.Errorf("path: got %q", gotPath)
	}
	if !strings.Contains(out.String(), "jane/site") {
		t.Errorf("output: got %q", out.String())
	}
}

func TestDeployCommandNotConfigured(t *testing.T) {
	cfg = &config.Config{GitHubOwner: "jane"}
	t.Cleanup(func() { cfg = nil })

	err := deployCmd.RunE(deployCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Errorf("expected missing configuration error, got %v", err)
	}
}
