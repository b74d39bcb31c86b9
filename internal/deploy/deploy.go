// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package deploy publishes the static site by sending a repository_dispatch
// event to GitHub. The workflow listening for the event builds the export
// and pushes it to the CDN.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// EventType is the repository_dispatch event the deploy workflow listens for.
	EventType = "deploy_static"
)

// Config identifies the repository whose workflow publishes the site.
type Config struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // defaults to DefaultBaseURL
}

// Enabled reports whether the token, owner and repository are all set.
func (c Config) Enabled() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}

// Deployer triggers the publishing workflow.
type Deployer struct {
	config Config
	client *http.Client
}

// New creates a Deployer. Returns nil if the configuration is incomplete.
func New(cfg Config) *Deployer {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Deployer{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Repository returns "owner/repo".
func (d *Deployer) Repository() string {
	return d.config.Owner + "/" + d.config.Repo
}

type dispatchRequest struct {
	EventType string `json:"event_type"`
}

// Dispatch sends the deploy event. GitHub answers 204 No Content on success.
func (d *Deployer) Dispatch(ctx context.Context) error {
	payload, err := json.Marshal(dispatchRequest{EventType: EventType})
	if err != nil {
		return fmt.Errorf("dispatch marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/dispatches",
		d.config.BaseURL, url.PathEscape(d.config.Owner), url.PathEscape(d.config.Repo))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "portfolio")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("github API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
