// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package deploy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig(baseURL string) Config {
	return Config{Token: "ghp-test", Owner: "jane", Repo: "site", BaseURL: baseURL}
}

func TestNew_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty", Config{}},
		{"no token", Config{Owner: "jane", Repo: "site"}},
		{"no owner", Config{Token: "t", Repo: "site"}},
		{"no repo", Config{Token: "t", Owner: "jane"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := New(tt.cfg); d != nil {
				t.Errorf("New(%+v) = %v, want nil", tt.cfg, d)
			}
		})
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	d := New(testConfig(""))
	if d.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", d.config.BaseURL, DefaultBaseURL)
	}
	if d.Repository() != "jane/site" {
		t.Errorf("Repository: got %q", d.Repository())
	}
}

func TestDispatch_SendsEvent(t *testing.T) {
	var (
		gotMethod, gotPath, gotAuth, gotAccept string
		gotBody                                dispatchRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(testConfig(srv.URL+"/")).Dispatch(context.Background()); err != nil {
		t.Fatalf("Dispatch: unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method: got %q, want POST", gotMethod)
	}
	if gotPath != "/repos/jane/site/dispatches" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer ghp-test" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("Accept: got %q", gotAccept)
	}
	if gotBody.EventType != "deploy_static" {
		t.Errorf("event_type: got %q, want deploy_static", gotBody.EventType)
	}
}

func TestDispatch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	err := New(testConfig(srv.URL)).Dispatch(context.Background())
	if err == nil {
		t.Fatal("Dispatch: expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Not Found") {
		t.Errorf("error should carry status and body, got %v", err)
	}
}

func TestDispatch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := New(testConfig(url)).Dispatch(context.Background()); err == nil {
		t.Error("Dispatch: expected error for a closed server")
	}
}
