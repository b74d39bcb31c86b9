// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"portfolio/internal/deploy"
	"portfolio/internal/exporter"
)

// exportResponse is the JSON body returned by a completed export.
type exportResponse struct {
	OutputDir  string   `json:"output_dir"`
	Projects   []string `json:"projects"`
	Skipped    []string `json:"skipped"`
	DurationMS int64    `json:"duration_ms"`
}

// Export regenerates the static site. Only one export runs at a time; a
// request arriving while one is in progress gets 409 Conflict. The export
// keeps running if the client disconnects.
func (a *Admin) Export(w http.ResponseWriter, r *http.Request) {
	if !a.exporting.CompareAndSwap(false, true) {
		writeError(w, "An export is already running.", http.StatusConflict)
		return
	}
	defer a.exporting.Store(false)

	res, err := a.exporter.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, exporter.ErrUnsafeOutput) {
			slog.Error("export refused", "error", err)
			writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Error("export failed", "error", err)
		writeError(w, "Export failed.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		OutputDir:  res.OutputDir,
		Projects:   orEmpty(res.Projects),
		Skipped:    orEmpty(res.Skipped),
		DurationMS: res.Duration.Milliseconds(),
	})
}

// Deploy asks the publishing workflow to rebuild and publish the site. The
// workflow runs its own export, so Deploy does not wait for one here.
func (a *Admin) Deploy(w http.ResponseWriter, r *http.Request) {
	if a.deployer == nil {
		writeError(w, "Deployment is not configured.", http.StatusServiceUnavailable)
		return
	}
	if err := a.deployer.Dispatch(r.Context()); err != nil {
		slog.Error("deploy dispatch failed", "error", err)
		writeError(w, "Deploy request failed.", http.StatusBadGateway)
		return
	}
	slog.Info("deploy dispatched", "event_type", deploy.EventType)
	writeJSON(w, http.StatusAccepted, map[string]string{"event_type": deploy.EventType})
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
