// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/cache"
	"portfolio/internal/engine"
	"portfolio/internal/site"
	"portfolio/internal/slug"
)

// PageCache stores rendered pages. *cache.PageCache satisfies it, including
// a nil one.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateAll(ctx context.Context)
}

// Public groups handlers for the live public site. It renders the same
// pages as the static exporter, checking the Valkey page cache before
// loading and rendering, and storing rendered results on miss.
type Public struct {
	loader    *site.Loader
	engine    *engine.Engine
	pageCache PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(loader *site.Loader, eng *engine.Engine, pageCache PageCache) *Public {
	return &Public{loader: loader, engine: eng, pageCache: orNoCache(pageCache)}
}

// orNoCache substitutes a nil *cache.PageCache, which caches nothing, for a
// nil interface.
func orNoCache(pc PageCache) PageCache {
	if pc == nil {
		return (*cache.PageCache)(nil)
	}
	return pc
}

// renderFunc loads and renders one page. A nil result with a nil error
// means the page does not exist.
type renderFunc func(ctx context.Context) ([]byte, error)

// Index renders the project timeline.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, cache.IndexKey(), func(ctx context.Context) ([]byte, error) {
		idx, err := p.loader.Index(ctx)
		if err != nil {
			return nil, err
		}
		return p.engine.RenderIndex(idx)
	})
}

// Project renders a project detail page by its slug.
func (p *Public) Project(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	if !slug.Valid(s) {
		http.NotFound(w, r)
		return
	}
	p.serve(w, r, cache.ProjectKey(s), func(ctx context.Context) ([]byte, error) {
		page, err := p.loader.Project(ctx, s)
		if err != nil || page == nil {
			return nil, err
		}
		return p.engine.RenderProject(page)
	})
}

// About renders the about page.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.static(w, r, "about", p.loader.About)
}

// Contact renders the contact page.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	p.static(w, r, "contact", p.loader.Contact)
}

func (p *Public) static(w http.ResponseWriter, r *http.Request, name string, load func(context.Context) (*site.StaticPage, error)) {
	p.serve(w, r, cache.StaticKey(name), func(ctx context.Context) ([]byte, error) {
		page, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return p.engine.RenderPage(page)
	})
}

func (p *Public) serve(w http.ResponseWriter, r *http.Request, key string, render renderFunc) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, key); ok {
		writeHTML(w, cached)
		return
	}

	rendered, err := render(ctx)
	if err != nil {
		slog.Error("render public page failed", "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rendered == nil {
		http.NotFound(w, r)
		return
	}

	p.pageCache.Set(ctx, key, rendered)
	writeHTML(w, rendered)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
