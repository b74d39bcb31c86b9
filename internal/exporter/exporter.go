// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package exporter regenerates the complete static site from the current
// content. Every run removes the previous output and rebuilds it, so pages
// of deleted projects never survive. A run either completes with a Result
// or fails with an error; a failed run may leave partial output behind and
// is recovered by running again.
//
// Pages are loaded by independent queries with no enclosing transaction.
// Content edited while an export runs may appear on some pages and not on
// others.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/models"
	"portfolio/internal/site"
	"portfolio/internal/slug"
	"portfolio/internal/timeline"
)

// ErrUnsafeOutput is returned when the output root could not be removed
// without destroying something else.
var ErrUnsafeOutput = errors.New("unsafe export output directory")

// DefaultWorkers is the project render concurrency when none is configured.
const DefaultWorkers = 4

// Source loads view data. *site.Loader satisfies it.
type Source interface {
	Index(ctx context.Context) (*site.Index, error)
	Project(ctx context.Context, slug string) (*site.ProjectPage, error)
	About(ctx context.Context) (*site.StaticPage, error)
	Contact(ctx context.Context) (*site.StaticPage, error)
}

// Renderer turns view data into markup. *engine.Engine satisfies it.
type Renderer interface {
	RenderIndex(idx *site.Index) ([]byte, error)
	RenderProject(p *site.ProjectPage) ([]byte, error)
	RenderPage(p *site.StaticPage) ([]byte, error)
	RenderAdminRedirect(adminURL string) ([]byte, error)
}

// Options configures an Exporter.
type Options struct {
	// OutputDir is the root of the generated tree. It is deleted on every run.
	OutputDir string
	// AssetDir is the source of static assets, copied to OutputDir/static.
	AssetDir string
	// Assets overrides the filesystem assets are read from. Defaults to
	// os.DirFS(AssetDir).
	Assets fs.FS
	// AdminURL is where the exported /admin/ page redirects to.
	AdminURL string
	// Workers bounds how many project pages render concurrently.
	Workers int
}

// Result describes a completed export.
type Result struct {
	OutputDir string
	Projects  []string // slugs written, sorted
	Skipped   []string // slugs skipped, sorted
	Duration  time.Duration
}

// Exporter writes the static site.
type Exporter struct {
	source   Source
	renderer Renderer
	opts     Options
}

// New creates an Exporter.
func New(source Source, renderer Renderer, opts Options) *Exporter {
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.Assets == nil && opts.AssetDir != "" {
		opts.Assets = os.DirFS(opts.AssetDir)
	}
	return &Exporter{source: source, renderer: renderer, opts: opts}
}

// Run performs a full export.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	root, err := e.outputRoot()
	if err != nil {
		return nil, err
	}
	slog.Info("export started", "output", root)

	if err := reset(root); err != nil {
		return nil, err
	}
	if err := e.copyAssets(filepath.Join(root, "static")); err != nil {
		return nil, err
	}

	idx, err := e.source.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("export index: %w", err)
	}
	if err := e.render(root, "index.html", func() ([]byte, error) { return e.renderer.RenderIndex(idx) }); err != nil {
		return nil, err
	}

	res := &Result{OutputDir: root}
	if err := e.exportProjects(ctx, root, timeline.Flatten(idx.Groups), res); err != nil {
		return nil, err
	}

	for _, sp := range []struct {
		dir  string
		load func(context.Context) (*site.StaticPage, error)
	}{
		{"about", e.source.About},
		{"contact", e.source.Contact},
	} {
		page, err := sp.load(ctx)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", sp.dir, err)
		}
		if err := e.render(root, sp.dir+"/index.html", func() ([]byte, error) { return e.renderer.RenderPage(page) }); err != nil {
			return nil, err
		}
	}

	if err := e.render(root, "admin/index.html", func() ([]byte, error) {
		return e.renderer.RenderAdminRedirect(e.opts.AdminURL)
	}); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	slog.Info("export completed",
		"output", root,
		"projects", len(res.Projects),
		"skipped", len(res.Skipped),
		"duration", res.Duration,
	)
	return res, nil
}

// exportProjects renders every project page on a bounded worker pool. A
// project that fails to load, no longer exists or has an unusable slug is
// skipped; write and render failures abort the run.
func (e *Exporter) exportProjects(ctx context.Context, root string, projects []models.Project, res *Result) error {
	var mu sync.Mutex
	record := func(list *[]string, s string) {
		mu.Lock()
		*list = append(*list, s)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for _, p := range projects {
		s := p.Slug
		if !slug.Valid(s) {
			slog.Warn("export skipping project with invalid slug", "slug", s, "id", p.ID)
			record(&res.Skipped, s)
			continue
		}
		g.Go(func() error {
			page, err := e.source.Project(gctx, s)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("export skipping project that failed to load", "slug", s, "error", err)
				record(&res.Skipped, s)
				return nil
			}
			if page == nil {
				slog.Info("export skipping project that no longer exists", "slug", s)
				record(&res.Skipped, s)
				return nil
			}
			if err := e.render(root, "project/"+s+"/index.html", func() ([]byte, error) {
				return e.renderer.RenderProject(page)
			}); err != nil {
				return err
			}
			record(&res.Projects, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slices.Sort(res.Projects)
	slices.Sort(res.Skipped)
	return nil
}

// outputRoot resolves the output directory and refuses roots whose removal
// would take the filesystem root, the working directory or the asset
// source with it.
func (e *Exporter) outputRoot() (string, error) {
	raw := strings.TrimSpace(e.opts.OutputDir)
	if raw == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafeOutput)
	}
	root, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if root == filepath.Dir(root) {
		return "", fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeOutput, root)
	}
	if wd, err := os.Getwd(); err == nil && within(wd, root) {
		return "", fmt.Errorf("%w: %s contains the working directory", ErrUnsafeOutput, root)
	}
	if e.opts.AssetDir != "" {
		assets, err := filepath.Abs(e.opts.AssetDir)
		if err != nil {
			return "", fmt.Errorf("resolve asset dir: %w", err)
		}
		if within(assets, root) || within(root, assets) {
			return "", fmt.Errorf("%w: %s overlaps asset dir %s", ErrUnsafeOutput, root, assets)
		}
	}
	return root, nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func reset(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("remove output dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// copyAssets copies the asset tree verbatim. A missing asset source is
// logged and skipped.
func (e *Exporter) copyAssets(dst string) error {
	if e.opts.Assets == nil {
		slog.Warn("export has no static asset directory configured")
		return nil
	}
	if _, err := fs.Stat(e.opts.Assets, "."); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("static asset directory not found, skipping", "dir", e.opts.AssetDir)
			return nil
		}
		return fmt.Errorf("stat assets: %w", err)
	}
	if err := os.CopyFS(dst, e.opts.Assets); err != nil {
		return fmt.Errorf("copy assets: %w", err)
	}
	return nil
}

// render writes the output of fn to rel under root.
func (e *Exporter) render(root, rel string, fn func() ([]byte, error)) error {
	data, err := fn()
	if err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
