// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/blocks"
	"portfolio/internal/models"
)

// BlockStore handles content block database operations. block_type is a
// generated column, so only the payload is ever written.
type BlockStore struct {
	db *sql.DB
}

// NewBlockStore creates a new BlockStore with the given database connection.
func NewBlockStore(db *sql.DB) *BlockStore {
	return &BlockStore{db: db}
}

func scanBlock(row rowScanner) (*models.ContentBlock, error) {
	b := &models.ContentBlock{}
	var v blocks.Value
	if err := row.Scan(&b.ID, &b.ProjectID, &v, &b.SortOrder); err != nil {
		return nil, err
	}
	b.Content = v.Content
	return b, nil
}

// ListByProject returns the blocks of a project ordered by (sort_order, id).
func (s *BlockStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ContentBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, content, sort_order
		FROM content_blocks
		WHERE project_id = $1
		ORDER BY sort_order ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var items []models.ContentBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a block by its UUID. Returns nil if not found.
func (s *BlockStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, content, sort_order
		FROM content_blocks WHERE id = $1
	`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find block by id: %w", err)
	}
	return b, nil
}

// Create inserts a new block and returns it with the generated ID.
func (s *BlockStore) Create(ctx context.Context, b *models.ContentBlock) (*models.ContentBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO content_blocks (project_id, content, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, content, sort_order
	`, b.ProjectID, blocks.Value{Content: b.Content}, b.SortOrder)
	created, err := scanBlock(row)
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return created, nil
}

// Update replaces a block's payload and sort order. Returns ErrNotFound if
// the block does not exist.
func (s *BlockStore) Update(ctx context.Context, b *models.ContentBlock) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE content_blocks SET content = $1, sort_order = $2, updated_at = NOW()
		WHERE id = $3
	`, blocks.Value{Content: b.Content}, b.SortOrder, b.ID)
	if err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	return nil
}

// Delete removes a block by ID. Returns ErrNotFound if it does not exist.
func (s *BlockStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

// MaxSortOrder returns the highest sort_order of the project's blocks.
// ok is false when the project has no blocks.
func (s *BlockStore) MaxSortOrder(ctx context.Context, projectID uuid.UUID) (int, bool, error) {
	var highest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM content_blocks WHERE project_id = $1`, projectID,
	).Scan(&highest)
	if err != nil {
		return 0, false, fmt.Errorf("max block sort order: %w", err)
	}
	return int(highest.Int64), highest.Valid, nil
}

// SetSortOrder moves one block of the project. updated is false when no such
// block belongs to the project.
func (s *BlockStore) SetSortOrder(ctx context.Context, projectID, blockID uuid.UUID, order int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE content_blocks SET sort_order = $1, updated_at = NOW()
		WHERE id = $2 AND project_id = $3
	`, order, blockID, projectID)
	if err != nil {
		return false, fmt.Errorf("set block sort order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set block sort order: %w", err)
	}
	return n > 0, nil
}

// DeleteByProject removes every block of a project using q, which may be a
// transaction. It returns the number of blocks removed.
func (s *BlockStore) DeleteByProject(ctx context.Context, q querier, projectID uuid.UUID) (int64, error) {
	if q == nil {
		q = s.db
	}
	res, err := q.ExecContext(ctx, `DELETE FROM content_blocks WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete project blocks: %w", err)
	}
	return res.RowsAffected()
}
