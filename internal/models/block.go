// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"portfolio/internal/blocks"
)

// ContentBlock is one ordered section of a project page. Its block type is
// not stored separately: Kind is always derived from Content.
type ContentBlock struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Content   blocks.Content
	SortOrder int
}

// Kind returns the block type of the payload.
func (b *ContentBlock) Kind() blocks.Kind {
	if b.Content == nil {
		return blocks.KindText
	}
	return b.Content.Kind()
}

// Preview returns the short listing summary of the payload.
func (b *ContentBlock) Preview() string {
	return blocks.Preview(b.Content)
}

// blockJSON is the admin API representation of a block.
type blockJSON struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	BlockType string    `json:"block_type"`
	Content   string    `json:"content"`
	Preview   string    `json:"preview"`
	SortOrder int       `json:"sort_order"`
}

// MarshalJSON renders the block with its form text so API clients can
// round-trip it through the edit form unchanged.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		BlockType: string(b.Kind()),
		Content:   blocks.FormText(b.Content),
		Preview:   b.Preview(),
		SortOrder: b.SortOrder,
	})
}
