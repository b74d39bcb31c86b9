// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the portfolio server:
// the live public site and the JSON admin API. Handlers are grouped by
// concern and receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/exporter"
	"portfolio/internal/models"
	"portfolio/internal/ordering"
	"portfolio/internal/slug"
	"portfolio/internal/store"
)

// maxJSONBody caps the size of JSON request bodies.
const maxJSONBody = 1 << 20

// ProjectStore is the project persistence the admin API needs.
type ProjectStore interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlockStore is the content block persistence the admin API needs.
type BlockStore interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ContentBlock, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentBlock, error)
	Create(ctx context.Context, b *models.ContentBlock) (*models.ContentBlock, error)
	Update(ctx context.Context, b *models.ContentBlock) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PageStore is the page persistence the admin API needs.
type PageStore interface {
	List(ctx context.Context) ([]models.Page, error)
	Upsert(ctx context.Context, p *models.Page) (*models.Page, error)
}

// Uploader stores media files and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, hint string) (string, error)
}

// Exporter regenerates the static site.
type Exporter interface {
	Run(ctx context.Context) (*exporter.Result, error)
}

// Deployer asks the publishing workflow to deploy the static site.
type Deployer interface {
	Dispatch(ctx context.Context) error
}

// Admin groups the admin API handlers and their dependencies.
type Admin struct {
	projects  ProjectStore
	blocks    BlockStore
	pages     PageStore
	order     *ordering.Engine
	uploader  Uploader
	exporter  Exporter
	deployer  Deployer
	pageCache PageCache

	exporting atomic.Bool
}

// NewAdmin creates a new Admin handler group. uploader may be nil when
// object storage is not configured, deployer when GitHub is not, and
// pageCache when Valkey is not.
func NewAdmin(projects ProjectStore, blocks BlockStore, pages PageStore, order *ordering.Engine, uploader Uploader, exp Exporter, deployer Deployer, pageCache PageCache) *Admin {
	return &Admin{
		projects:  projects,
		blocks:    blocks,
		pages:     pages,
		order:     order,
		uploader:  uploader,
		exporter:  exp,
		deployer:  deployer,
		pageCache: orNoCache(pageCache),
	}
}

// --- Projects ---

// projectInput is the JSON body of project create and update requests.
type projectInput struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// ProjectsList returns every project, newest first.
func (a *Admin) ProjectsList(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.List(r.Context())
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeError(w, "Failed to list projects.", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// ProjectGet returns one project.
func (a *Admin) ProjectGet(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProjectCreate creates a project from a JSON body.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	var in projectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p := &models.Project{}
	if msg := applyProject(p, &in); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	created, err := a.projects.Create(r.Context(), p)
	if err != nil {
		a.projectWriteError(w, err, "create")
		return
	}

	slog.Info("project created", "id", created.ID, "slug", created.Slug)
	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// ProjectUpdate replaces a project's fields from a JSON body.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadProject(w, r)
	if !ok {
		return
	}
	var in projectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := applyProject(p, &in); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	if err := a.projects.Update(r.Context(), p); err != nil {
		a.projectWriteError(w, err, "update")
		return
	}

	slog.Info("project updated", "id", p.ID, "slug", p.Slug)
	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, p)
}

// ProjectDelete removes a project together with its blocks.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "Project not found.", http.StatusNotFound)
			return
		}
		slog.Error("delete project failed", "error", err, "id", id)
		writeError(w, "Failed to delete project.", http.StatusInternalServerError)
		return
	}

	slog.Info("project deleted", "id", id)
	a.pageCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// loadProject resolves the {id} URL parameter to a project, writing the
// error response itself when it cannot.
func (a *Admin) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}
	p, err := a.projects.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find project failed", "error", err, "id", id)
		writeError(w, "Failed to load project.", http.StatusInternalServerError)
		return nil, false
	}
	if p == nil {
		writeError(w, "Project not found.", http.StatusNotFound)
		return nil, false
	}
	return p, true
}

func (a *Admin) projectWriteError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, models.ErrInvalidProject):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrSlugTaken):
		writeError(w, "A project with this slug already exists.", http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, "Project not found.", http.StatusNotFound)
	default:
		slog.Error(op+" project failed", "error", err)
		writeError(w, "Failed to save project.", http.StatusInternalServerError)
	}
}

// applyProject copies validated input onto p. An empty slug is generated
// from the title. Returns a user-facing message on invalid input.
func applyProject(p *models.Project, in *projectInput) string {
	if msg := validateProject(in); msg != "" {
		return msg
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Slug = strings.TrimSpace(in.Slug)
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Slug != "" && !slug.Valid(p.Slug) {
		return "Slug may only contain lowercase letters, digits and single hyphens."
	}

	start, err := models.ParseDate(in.StartDate)
	if err != nil {
		return "Start date must be formatted as YYYY-MM-DD."
	}
	p.StartDate = start

	p.EndDate = nil
	if in.EndDate != nil && strings.TrimSpace(*in.EndDate) != "" {
		end, err := models.ParseDate(*in.EndDate)
		if err != nil {
			return "End date must be formatted as YYYY-MM-DD."
		}
		p.EndDate = &end
	}

	p.Description = nonEmpty(in.Description)
	p.ThumbnailURL = nonEmpty(in.ThumbnailURL)
	return ""
}

// --- Pages ---

// pageInput is the JSON body of a page update.
type pageInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PagesList returns the stored pages plus the defaults of well-known pages
// that were never saved.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	stored, err := a.pages.List(r.Context())
	if err != nil {
		slog.Error("list pages failed", "error", err)
		writeError(w, "Failed to list pages.", http.StatusInternalServerError)
		return
	}

	seen := make(map[string]bool, len(stored))
	for _, p := range stored {
		seen[p.Slug] = true
	}
	out := append([]models.Page{}, stored...)
	for _, s := range models.WellKnownPages() {
		if !seen[s] {
			out = append(out, models.DefaultPage(s))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// PageUpdate creates or replaces the page named by the {slug} parameter.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	if !slug.Valid(s) {
		writeError(w, "Invalid page slug.", http.StatusBadRequest)
		return
	}
	var in pageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validatePage(in.Title, in.Content); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	saved, err := a.pages.Upsert(r.Context(), &models.Page{
		Slug:    s,
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
	})
	if err != nil {
		slog.Error("upsert page failed", "error", err, "slug", s)
		writeError(w, "Failed to save page.", http.StatusInternalServerError)
		return
	}

	slog.Info("page updated", "slug", s)
	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, saved)
}

// --- Helpers ---

// parseID reads the {id} URL parameter as a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Invalid ID.", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown
// fields. It writes a 400 response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, "Invalid JSON body.", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode json response failed", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
