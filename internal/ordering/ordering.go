// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ordering maintains the display order of a project's content
// blocks. Blocks are ordered by (sort_order ASC, id ASC); sort_order values
// need not be contiguous.
package ordering

import (
	"bytes"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// Store is the persistence the engine needs. *store.BlockStore satisfies it.
type Store interface {
	// MaxSortOrder returns the highest sort_order among the project's
	// blocks. ok is false when the project has none.
	MaxSortOrder(ctx context.Context, projectID uuid.UUID) (highest int, ok bool, err error)
	// SetSortOrder updates one block of the project. updated is false when
	// the block does not exist or belongs to another project.
	SetSortOrder(ctx context.Context, projectID, blockID uuid.UUID, order int) (updated bool, err error)
}

// Update moves one block to a new sort position.
type Update struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sort_order"`
}

// Engine computes append positions and applies bulk reorders.
type Engine struct {
	store Store
}

// New creates an Engine over the given store.
func New(s Store) *Engine {
	return &Engine{store: s}
}

// Append returns the sort_order a new block should take to appear last:
// one past the current maximum, or 0 for a project without blocks.
func (e *Engine) Append(ctx context.Context, projectID uuid.UUID) (int, error) {
	highest, ok, err := e.store.MaxSortOrder(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return highest + 1, nil
}

// ApplyReorder applies each update independently and returns how many
// blocks were moved. A block that no longer exists is a no-op, and a failed
// update is logged and dropped, so a batch may be partially applied. A
// later reorder of the same blocks converges to the requested order.
func (e *Engine) ApplyReorder(ctx context.Context, projectID uuid.UUID, updates []Update) int {
	applied := 0
	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			slog.Warn("reorder interrupted", "project_id", projectID, "applied", applied, "error", err)
			return applied
		}
		ok, err := e.store.SetSortOrder(ctx, projectID, u.ID, u.SortOrder)
		if err != nil {
			slog.Warn("reorder block failed", "project_id", projectID, "block_id", u.ID, "error", err)
			continue
		}
		if !ok {
			slog.Debug("reorder skipped missing block", "project_id", projectID, "block_id", u.ID)
			continue
		}
		applied++
	}
	return applied
}

// Less reports whether a orders before b.
func Less(a, b *models.ContentBlock) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// Compare is the three-way form of Less, for slices.SortFunc.
func Compare(a, b models.ContentBlock) int {
	switch {
	case Less(&a, &b):
		return -1
	case Less(&b, &a):
		return 1
	default:
		return 0
	}
}

// Sort orders blocks in place by (sort_order, id).
func Sort(blocks []models.ContentBlock) {
	slices.SortStableFunc(blocks, Compare)
}
