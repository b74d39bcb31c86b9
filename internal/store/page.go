// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portfolio/internal/models"
)

// PageStore handles standalone page database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

// List returns all pages ordered by slug.
func (s *PageStore) List(ctx context.Context) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, title, content, updated_at FROM pages ORDER BY slug ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var items []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.Slug, &p.Title, &p.Content, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a page by slug. Returns nil if not found.
func (s *PageStore) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	p := &models.Page{}
	err := s.db.QueryRowContext(ctx, `
		SELECT slug, title, content, updated_at FROM pages WHERE slug = $1
	`, slug).Scan(&p.Slug, &p.Title, &p.Content, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// FindOrDefault retrieves a page by slug, returning fallback when the page
// does not exist. Query failures are still returned as errors.
func (s *PageStore) FindOrDefault(ctx context.Context, slug string, fallback models.Page) (models.Page, error) {
	p, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return models.Page{}, err
	}
	if p == nil {
		return fallback, nil
	}
	return *p, nil
}

// Upsert creates the page or replaces its title and content.
func (s *PageStore) Upsert(ctx context.Context, p *models.Page) (*models.Page, error) {
	out := &models.Page{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pages (slug, title, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title, content = EXCLUDED.content, updated_at = NOW()
		RETURNING slug, title, content, updated_at
	`, p.Slug, p.Title, p.Content).Scan(&out.Slug, &out.Title, &out.Content, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert page: %w", err)
	}
	return out, nil
}
