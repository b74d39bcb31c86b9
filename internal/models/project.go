// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used in forms and JSON.
const DateLayout = "2006-01-02"

// ErrInvalidProject is wrapped by every project validation error.
var ErrInvalidProject = errors.New("invalid project")

var (
	ErrTitleRequired  = fmt.Errorf("%w: title is required", ErrInvalidProject)
	ErrSlugRequired   = fmt.Errorf("%w: slug is required", ErrInvalidProject)
	ErrStartDate      = fmt.Errorf("%w: start date is required", ErrInvalidProject)
	ErrEndBeforeStart = fmt.Errorf("%w: end date is before start date", ErrInvalidProject)
)

// Project is a portfolio entry shown on the timeline and on its own page.
type Project struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  *string    `json:"description,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Year returns the calendar year the project started in.
func (p *Project) Year() int {
	return p.StartDate.Year()
}

// Validate checks the invariants the store relies on. Slug URL-safety is
// checked by the caller, which owns slug generation.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(p.Slug) == "" {
		return ErrSlugRequired
	}
	if p.StartDate.IsZero() {
		return ErrStartDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}
