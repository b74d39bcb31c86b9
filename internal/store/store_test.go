// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"portfolio/internal/database"
	"portfolio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "portfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "portfolio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testSlug returns a unique slug so parallel packages sharing the database
// never collide.
func testSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// testDate returns a date far in the past that is unique per call, so
// neighbour lookups are not disturbed by rows other tests leave behind.
func testDate(t *testing.T, db *sql.DB, offsetDays int) time.Time {
	t.Helper()
	var base time.Time
	if err := db.QueryRow(`SELECT COALESCE(MIN(start_date), DATE '2000-01-01') FROM projects`).Scan(&base); err != nil {
		t.Fatalf("min start date: %v", err)
	}
	return base.AddDate(-1, 0, offsetDays).UTC()
}

// createProject inserts a project and removes it (with its blocks) on cleanup.
func createProject(t *testing.T, db *sql.DB, title string, start time.Time) *models.Project {
	t.Helper()
	s := NewProjectStore(db)
	p, err := s.Create(context.Background(), &models.Project{
		Title:     title,
		Slug:      testSlug(title),
		StartDate: start,
	})
	if err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	t.Cleanup(func() { cleanProjects(t, db, p.ID) })
	return p
}

// cleanProjects removes test projects and their blocks. Call in t.Cleanup().
func cleanProjects(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM content_blocks WHERE project_id = $1", id)
		db.Exec("DELETE FROM projects WHERE id = $1", id)
	}
}

// cleanPages removes test pages by slug. Call in t.Cleanup().
func cleanPages(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM pages WHERE slug = $1", slug)
	}
}
