// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders the public pages from typed view data using the
// embedded html/templates. It is the only place that decides which strings
// are trusted markup: text block bodies, page content and the footer are
// written by the administrator and emitted raw, everything else is escaped.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"portfolio/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultSiteName is shown in the header and page titles.
const DefaultSiteName = "Portfolio"

// Engine holds the compiled page templates. It is safe for concurrent use.
type Engine struct {
	siteName string
	index    *template.Template
	project  *template.Template
	page     *template.Template
	redirect *template.Template
}

// New compiles the embedded templates.
func New(siteName string) (*Engine, error) {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	e := &Engine{siteName: siteName}

	var err error
	if e.index, err = parseLayout("index.html"); err != nil {
		return nil, err
	}
	if e.project, err = parseLayout("project.html"); err != nil {
		return nil, err
	}
	if e.page, err = parseLayout("page.html"); err != nil {
		return nil, err
	}
	if e.redirect, err = template.ParseFS(templateFS, "templates/admin_redirect.html"); err != nil {
		return nil, fmt.Errorf("compile template admin_redirect.html: %w", err)
	}
	return e, nil
}

func parseLayout(name string) (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("compile template %s: %w", name, err)
	}
	return t, nil
}

// RenderIndex renders the home page timeline.
func (e *Engine) RenderIndex(idx *site.Index) ([]byte, error) {
	return execute(e.index, "base", e.indexView(idx))
}

// RenderProject renders a project detail page.
func (e *Engine) RenderProject(p *site.ProjectPage) ([]byte, error) {
	return execute(e.project, "base", e.projectView(p))
}

// RenderPage renders a standalone page such as about or contact.
func (e *Engine) RenderPage(p *site.StaticPage) ([]byte, error) {
	return execute(e.page, "base", e.pageView(p))
}

// RenderAdminRedirect renders the stub that sends visitors of the static
// site's /admin/ to the external admin application's login page.
func (e *Engine) RenderAdminRedirect(adminURL string) ([]byte, error) {
	return execute(e.redirect, "admin_redirect.html", redirectView{LoginURL: LoginURL(adminURL)})
}

func execute(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
