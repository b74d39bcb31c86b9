// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Well-known page slugs with a fixed role on the site.
const (
	PageAbout   = "about"
	PageContact = "contact"
	PageFooter  = "footer"
)

// Page is a standalone markup document keyed by slug.
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPage returns the built-in fallback for a well-known slug, used when
// the page has not been created yet. Unknown slugs get an empty page titled
// after the slug.
func DefaultPage(slug string) Page {
	switch slug {
	case PageAbout:
		return Page{Slug: PageAbout, Title: "About", Content: "<p>About info missing.</p>"}
	case PageContact:
		return Page{Slug: PageContact, Title: "Contact", Content: "<p>Contact info missing.</p>"}
	case PageFooter:
		return Page{Slug: PageFooter, Title: "Footer", Content: "<p>&copy; 2024</p>"}
	default:
		return Page{Slug: slug, Title: slug}
	}
}

// WellKnownPages lists the slugs the site always renders.
func WellKnownPages() []string {
	return []string{PageAbout, PageContact, PageFooter}
}
