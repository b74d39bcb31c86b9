// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site assembles the typed view data of every public page. The live
// handlers and the static exporter both read through a Loader, so the two
// render identical content for identical data.
//
// Each method issues its own queries with no enclosing transaction: pages
// loaded at different moments may reflect different states of the store.
package site

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/timeline"
)

// ProjectReader is the project query surface the loader needs.
type ProjectReader interface {
	List(ctx context.Context) ([]models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Next(ctx context.Context, date time.Time) (*models.Project, error)
	Prev(ctx context.Context, date time.Time) (*models.Project, error)
}

// BlockReader lists a project's blocks in display order.
type BlockReader interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ContentBlock, error)
}

// PageReader fetches a page, falling back when it does not exist.
type PageReader interface {
	FindOrDefault(ctx context.Context, slug string, fallback models.Page) (models.Page, error)
}

// Index is the data of the home page.
type Index struct {
	Groups []timeline.YearGroup
	Footer string
}

// ProjectPage is the data of one project detail page. Next is the
// next-older project and Prev the next-newer one; either may be nil.
type ProjectPage struct {
	Project models.Project
	Blocks  []models.ContentBlock
	Next    *models.Project
	Prev    *models.Project
	Footer  string
}

// StaticPage is the data of a standalone page such as about or contact.
type StaticPage struct {
	Page   models.Page
	Footer string
}

// Loader reads view data from the content store.
type Loader struct {
	projects ProjectReader
	blocks   BlockReader
	pages    PageReader
}

// NewLoader creates a Loader over the given readers.
func NewLoader(projects ProjectReader, blocks BlockReader, pages PageReader) *Loader {
	return &Loader{projects: projects, blocks: blocks, pages: pages}
}

// Index loads every project grouped by start year, newest year first.
func (l *Loader) Index(ctx context.Context) (*Index, error) {
	projects, err := l.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	footer, err := l.Footer(ctx)
	if err != nil {
		return nil, err
	}
	return &Index{Groups: timeline.GroupByYear(projects), Footer: footer}, nil
}

// Project loads the detail page of the project with the given slug.
// Returns nil if no such project exists.
func (l *Loader) Project(ctx context.Context, slug string) (*ProjectPage, error) {
	p, err := l.projects.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", slug, err)
	}
	if p == nil {
		return nil, nil
	}

	page := &ProjectPage{Project: *p}
	if page.Blocks, err = l.blocks.ListByProject(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("load project %s blocks: %w", slug, err)
	}
	if page.Next, err = l.projects.Next(ctx, p.StartDate); err != nil {
		return nil, fmt.Errorf("load project %s next: %w", slug, err)
	}
	if page.Prev, err = l.projects.Prev(ctx, p.StartDate); err != nil {
		return nil, fmt.Errorf("load project %s prev: %w", slug, err)
	}
	if page.Footer, err = l.Footer(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// About loads the about page, or its built-in default.
func (l *Loader) About(ctx context.Context) (*StaticPage, error) {
	return l.static(ctx, models.PageAbout)
}

// Contact loads the contact page, or its built-in default.
func (l *Loader) Contact(ctx context.Context) (*StaticPage, error) {
	return l.static(ctx, models.PageContact)
}

// Footer returns the shared footer markup, or its built-in default.
func (l *Loader) Footer(ctx context.Context) (string, error) {
	p, err := l.pages.FindOrDefault(ctx, models.PageFooter, models.DefaultPage(models.PageFooter))
	if err != nil {
		return "", fmt.Errorf("load footer: %w", err)
	}
	return p.Content, nil
}

func (l *Loader) static(ctx context.Context, slug string) (*StaticPage, error) {
	p, err := l.pages.FindOrDefault(ctx, slug, models.DefaultPage(slug))
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", slug, err)
	}
	footer, err := l.Footer(ctx)
	if err != nil {
		return nil, err
	}
	return &StaticPage{Page: p, Footer: footer}, nil
}
