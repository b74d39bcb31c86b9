// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"portfolio/internal/models"
)

// Seed populates the database with initial development data: the
// well-known pages with their built-in default content. Existing pages are
// left untouched, so it is safe to run on every start.
func Seed(ctx context.Context, db *sql.DB) error {
	inserted := 0
	for _, slug := range models.WellKnownPages() {
		p := models.DefaultPage(slug)
		res, err := db.ExecContext(ctx, `
			INSERT INTO pages (slug, title, content)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, p.Slug, p.Title, p.Content)
		if err != nil {
			return fmt.Errorf("seed page %s: %w", slug, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if inserted == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}
	slog.Info("database seeded with default pages", "count", inserted)
	return nil
}
