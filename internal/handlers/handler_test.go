// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory stand-ins for the stores, uploader,
// exporter and page cache used by the handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/exporter"
	"portfolio/internal/models"
	"portfolio/internal/ordering"
	"portfolio/internal/store"
)

type fakeProjects struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{items: map[uuid.UUID]models.Project{}}
}

func (f *fakeProjects) List(_ context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProjects) slugTaken(slug string, except uuid.UUID) bool {
	for id, p := range f.items {
		if p.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (f *fakeProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slugTaken(p.Slug, uuid.Nil) {
		return nil, store.ErrSlugTaken
	}
	created := *p
	created.ID = uuid.New()
	f.items[created.ID] = created
	return &created, nil
}

func (f *fakeProjects) Update(_ context.Context, p *models.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return store.ErrNotFound
	}
	if f.slugTaken(p.Slug, p.ID) {
		return store.ErrSlugTaken
	}
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeBlocks struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.ContentBlock
}

func newFakeBlocks() *fakeBlocks {
	return &fakeBlocks{items: map[uuid.UUID]models.ContentBlock{}}
}

func (f *fakeBlocks) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.ContentBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ContentBlock
	for _, b := range f.items {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (f *fakeBlocks) FindByID(_ context.Context, id uuid.UUID) (*models.ContentBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBlocks) Create(_ context.Context, b *models.ContentBlock) (*models.ContentBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *b
	created.ID = uuid.New()
	f.items[created.ID] = created
	return &created, nil
}

func (f *fakeBlocks) Update(_ context.Context, b *models.ContentBlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[b.ID]; !ok {
		return store.ErrNotFound
	}
	f.items[b.ID] = *b
	return nil
}

func (f *fakeBlocks) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeBlocks) MaxSortOrder(_ context.Context, projectID uuid.UUID) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	highest, ok := 0, false
	for _, b := range f.items {
		if b.ProjectID == projectID && (!ok || b.SortOrder > highest) {
			highest, ok = b.SortOrder, true
		}
	}
	return highest, ok, nil
}

func (f *fakeBlocks) SetSortOrder(_ context.Context, projectID, blockID uuid.UUID, order int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[blockID]
	if !ok || b.ProjectID != projectID {
		return false, nil
	}
	b.SortOrder = order
	f.items[blockID] = b
	return true, nil
}

type fakePages struct {
	mu    sync.Mutex
	items map[string]models.Page
}

func (f *fakePages) List(_ context.Context) ([]models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Page
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePages) Upsert(_ context.Context, p *models.Page) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]models.Page{}
	}
	f.items[p.Slug] = *p
	saved := *p
	return &saved, nil
}

type fakeUploader struct {
	url      string
	err      error
	gotName  string
	gotHint  string
	gotBytes int
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, filename, hint string) (string, error) {
	f.gotName, f.gotHint, f.gotBytes = filename, hint, len(data)
	return f.url, f.err
}

type fakeExporter struct {
	res     *exporter.Result
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeExporter) Run(ctx context.Context) (*exporter.Result, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.res, f.err
}

type fakeDeployer struct {
	err   error
	calls int
}

func (f *fakeDeployer) Dispatch(ctx context.Context) error {
	f.calls++
	return f.err
}

// spyCache is an in-memory PageCache that counts invalidations.
type spyCache struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated int
}

func newSpyCache() *spyCache { return &spyCache{pages: map[string][]byte{}} }

func (c *spyCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.pages[key]
	return b, ok
}

func (c *spyCache) Set(_ context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = html
}

func (c *spyCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = map[string][]byte{}
	c.invalidated++
}

// testAdmin bundles an Admin with its fakes.
type testAdmin struct {
	*Admin
	projects *fakeProjects
	blocks   *fakeBlocks
	pages    *fakePages
	uploader *fakeUploader
	exporter *fakeExporter
	deployer *fakeDeployer
	cache    *spyCache
}

func newTestAdmin() *testAdmin {
	ta := &testAdmin{
		projects: newFakeProjects(),
		blocks:   newFakeBlocks(),
		pages:    &fakePages{},
		uploader: &fakeUploader{url: "https://cdn.example.com/uploads/image/x.png"},
		exporter: &fakeExporter{res: &exporter.Result{OutputDir: "/srv/dist"}},
		deployer: &fakeDeployer{},
		cache:    newSpyCache(),
	}
	ta.Admin = NewAdmin(ta.projects, ta.blocks, ta.pages, ordering.New(ta.blocks), ta.uploader, ta.exporter, ta.deployer, ta.cache)
	return ta
}

// withParams attaches chi URL parameters to a request, given as
// alternating key and value.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func formRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
	return v
}

// seedProject stores a project directly in the fake store.
func (ta *testAdmin) seedProject(t *testing.T, title, slug, start string) models.Project {
	t.Helper()
	d, err := models.ParseDate(start)
	if err != nil {
		t.Fatal(err)
	}
	p, err := ta.projects.Create(context.Background(), &models.Project{Title: title, Slug: slug, StartDate: d})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return *p
}
