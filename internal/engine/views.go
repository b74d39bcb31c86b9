// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"log/slog"
	"strings"

	"portfolio/internal/blocks"
	"portfolio/internal/markdown"
	"portfolio/internal/models"
	"portfolio/internal/site"
)

const monthLayout = "Jan 2006"

type layoutView struct {
	SiteName string
	Footer   template.HTML
}

type projectItem struct {
	Title        string
	URL          string
	ThumbnailURL string
	Dates        string
}

type yearView struct {
	Year     int
	Projects []projectItem
}

type indexView struct {
	layoutView
	Groups []yearView
}

type blockView struct {
	Kind   string
	HTML   template.HTML
	Images []string
	URL    string
	Tracks []blocks.Track
	Files  []blocks.Attachment
}

type projectView struct {
	layoutView
	Title        string
	Dates        string
	ThumbnailURL string
	Description  template.HTML
	Blocks       []blockView
	Next         *projectItem
	Prev         *projectItem
}

type pageView struct {
	layoutView
	Slug    string
	Title   string
	Content template.HTML
}

type redirectView struct {
	LoginURL string
}

// ProjectPath returns the site-relative URL of a project page.
func ProjectPath(slug string) string {
	return "/project/" + slug + "/"
}

// LoginURL returns the admin login address for an admin base URL.
func LoginURL(adminURL string) string {
	return strings.TrimRight(adminURL, "/") + "/login"
}

// Dates formats a project's date range, e.g. "Jan 2023 - Jun 2023" or
// "Jan 2023 - present".
func Dates(p *models.Project) string {
	start := p.StartDate.Format(monthLayout)
	if p.EndDate == nil {
		return start + " - present"
	}
	end := p.EndDate.Format(monthLayout)
	if end == start {
		return start
	}
	return start + " - " + end
}

func (e *Engine) layout(footer string) layoutView {
	return layoutView{SiteName: e.siteName, Footer: template.HTML(footer)}
}

func item(p *models.Project) *projectItem {
	if p == nil {
		return nil
	}
	it := &projectItem{Title: p.Title, URL: ProjectPath(p.Slug), Dates: Dates(p)}
	if p.ThumbnailURL != nil {
		it.ThumbnailURL = *p.ThumbnailURL
	}
	return it
}

func (e *Engine) indexView(idx *site.Index) indexView {
	v := indexView{layoutView: e.layout(idx.Footer)}
	for _, g := range idx.Groups {
		yv := yearView{Year: g.Year}
		for i := range g.Projects {
			yv.Projects = append(yv.Projects, *item(&g.Projects[i]))
		}
		v.Groups = append(v.Groups, yv)
	}
	return v
}

func (e *Engine) projectView(p *site.ProjectPage) projectView {
	v := projectView{
		layoutView: e.layout(p.Footer),
		Title:      p.Project.Title,
		Dates:      Dates(&p.Project),
		Next:       item(p.Next),
		Prev:       item(p.Prev),
	}
	if p.Project.ThumbnailURL != nil {
		v.ThumbnailURL = *p.Project.ThumbnailURL
	}
	if p.Project.Description != nil && *p.Project.Description != "" {
		v.Description = describe(*p.Project.Description)
	}
	for _, b := range p.Blocks {
		if b.Content == nil {
			continue
		}
		var bv viewBuilder
		b.Content.Accept(&bv)
		v.Blocks = append(v.Blocks, bv.view)
	}
	return v
}

func (e *Engine) pageView(p *site.StaticPage) pageView {
	return pageView{
		layoutView: e.layout(p.Footer),
		Slug:       p.Page.Slug,
		Title:      p.Page.Title,
		Content:    template.HTML(p.Page.Content),
	}
}

// describe renders a Markdown description, escaping it as plain text if
// conversion fails.
func describe(src string) template.HTML {
	out, err := markdown.ToHTML(src)
	if err != nil {
		slog.Warn("markdown conversion failed, using escaped text", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(out)
}

// viewBuilder turns a block payload into its template view.
type viewBuilder struct {
	view blockView
}

func (b *viewBuilder) VisitText(c blocks.Text) {
	b.view = blockView{Kind: string(blocks.KindText), HTML: template.HTML(c.HTML)}
}

func (b *viewBuilder) VisitGallery(c blocks.Gallery) {
	b.view = blockView{Kind: string(blocks.KindGallery), Images: c.Images}
}

func (b *viewBuilder) VisitVideo(c blocks.Video) {
	b.view = blockView{Kind: string(blocks.KindVideo), URL: EmbedURL(c.URL)}
}

func (b *viewBuilder) VisitAudio(c blocks.Audio) {
	b.view = blockView{Kind: string(blocks.KindAudio), Tracks: c.Tracks}
}

func (b *viewBuilder) VisitFile(c blocks.File) {
	b.view = blockView{Kind: string(blocks.KindFile), Files: c.Files}
}
