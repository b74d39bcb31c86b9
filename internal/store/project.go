// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

const projectColumns = `id, title, slug, description, start_date, end_date,
	thumbnail_url, created_at, updated_at`

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db     *sql.DB
	blocks *BlockStore
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db, blocks: NewBlockStore(db)}
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.StartDate, &p.EndDate,
		&p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects, newest start date first. Projects that share a
// start date are ordered by slug.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY start_date DESC, slug ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.findOne(ctx, "find project by id", `WHERE id = $1`, id)
}

// FindBySlug retrieves a project by its slug. Returns nil if not found.
func (s *ProjectStore) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.findOne(ctx, "find project by slug", `WHERE slug = $1`, slug)
}

// Next returns the chronologically next-older project: the one with the
// greatest start date strictly before date. Returns nil if none exists.
func (s *ProjectStore) Next(ctx context.Context, date time.Time) (*models.Project, error) {
	return s.findOne(ctx, "find next project",
		`WHERE start_date < $1 ORDER BY start_date DESC, slug ASC LIMIT 1`, date)
}

// Prev returns the chronologically next-newer project: the one with the
// least start date strictly after date. Returns nil if none exists.
func (s *ProjectStore) Prev(ctx context.Context, date time.Time) (*models.Project, error) {
	return s.findOne(ctx, "find prev project",
		`WHERE start_date > $1 ORDER BY start_date ASC, slug ASC LIMIT 1`, date)
}

func (s *ProjectStore) findOne(ctx context.Context, op, where string, arg any) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects `+where, arg)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create inserts a new project and returns it with the generated ID.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, description, start_date, end_date, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectColumns,
		p.Title, p.Slug, p.Description, p.StartDate, p.EndDate, p.ThumbnailURL,
	)
	created, err := scanProject(row)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update modifies an existing project. Returns ErrNotFound if it does not exist.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, description = $3, start_date = $4,
			end_date = $5, thumbnail_url = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Slug, p.Description, p.StartDate, p.EndDate, p.ThumbnailURL, p.ID)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project and all of its content blocks in one
// transaction. Returns ErrNotFound if the project does not exist.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete project begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.blocks.DeleteByProject(ctx, tx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete project commit: %w", err)
	}
	return nil
}

// Count returns the number of projects.
func (s *ProjectStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}
