// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sitetest provides an in-memory content store for tests of the
// packages that read through site.Loader.
package sitetest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/ordering"
)

// MemoryStore implements every site reader interface in memory, with the
// same ordering and neighbour semantics as the SQL store.
type MemoryStore struct {
	mu       sync.Mutex
	projects []models.Project
	blocks   []models.ContentBlock
	pages    map[string]models.Page

	// Fail, when set, is returned by queries touching the given project slug.
	Fail map[string]error
	// FailList, when set, is returned by List.
	FailList error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: map[string]models.Page{}, Fail: map[string]error{}}
}

// AddProject stores a project, assigning an ID when it has none.
func (m *MemoryStore) AddProject(p models.Project) models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.projects = append(m.projects, p)
	return p
}

// RemoveProject deletes a project and its blocks.
func (m *MemoryStore) RemoveProject(slug string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = slices.DeleteFunc(m.projects, func(p models.Project) bool {
		if p.Slug != slug {
			return false
		}
		m.blocks = slices.DeleteFunc(m.blocks, func(b models.ContentBlock) bool { return b.ProjectID == p.ID })
		return true
	})
}

// AddBlock stores a block, assigning an ID when it has none.
func (m *MemoryStore) AddBlock(b models.ContentBlock) models.ContentBlock {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.blocks = append(m.blocks, b)
	return b
}

// SetPage stores a page.
func (m *MemoryStore) SetPage(p models.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[p.Slug] = p
}

// List returns projects by start date descending, then slug.
func (m *MemoryStore) List(_ context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailList != nil {
		return nil, m.FailList
	}
	out := slices.Clone(m.projects)
	slices.SortFunc(out, func(a, b models.Project) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out, nil
}

// FindBySlug returns the project with the slug, or nil.
func (m *MemoryStore) FindBySlug(_ context.Context, slug string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail[slug]; err != nil {
		return nil, err
	}
	for _, p := range m.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

// Next returns the project with the greatest start date before date. Ties
// go to the lowest slug.
func (m *MemoryStore) Next(ctx context.Context, date time.Time) (*models.Project, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.StartDate.Before(date) {
			return &p, nil
		}
	}
	return nil, nil
}

// Prev returns the project with the least start date after date. Ties go
// to the lowest slug.
func (m *MemoryStore) Prev(ctx context.Context, date time.Time) (*models.Project, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var best *models.Project
	for i := range all {
		p := &all[i]
		if p.StartDate.After(date) && (best == nil || p.StartDate.Before(best.StartDate)) {
			best = p
		}
	}
	return best, nil
}

// ListByProject returns a project's blocks by (sort_order, id).
func (m *MemoryStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.ContentBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == projectID {
			if err := m.Fail[p.Slug]; err != nil {
				return nil, err
			}
		}
	}
	var out []models.ContentBlock
	for _, b := range m.blocks {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	ordering.Sort(out)
	return out, nil
}

// FindOrDefault returns the page with the slug, or fallback.
func (m *MemoryStore) FindOrDefault(_ context.Context, slug string, fallback models.Page) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["page:"+slug]; err != nil {
		return models.Page{}, err
	}
	if p, ok := m.pages[slug]; ok {
		return p, nil
	}
	return fallback, nil
}
