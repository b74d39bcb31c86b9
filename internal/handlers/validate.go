package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for admin form fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxURLLen         = 2_000
	maxBlockLen       = 500_000
	maxPageLen        = 100_000
)

// validateProject checks project inputs and returns the first error found.
// Required fields and date order are checked by models.Project.Validate.
func validateProject(in *projectInput) string {
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	if in.ThumbnailURL != nil && utf8.RuneCountInString(*in.ThumbnailURL) > maxURLLen {
		return "Thumbnail URL is too long (max 2,000 characters)."
	}
	return ""
}

// validateBlock checks the raw block content submitted by the editor.
// Content is stored as JSON, which cannot carry invalid UTF-8.
func validateBlock(content string) string {
	if !utf8.ValidString(content) {
		return "Block content must be valid UTF-8 text."
	}
	if utf8.RuneCountInString(content) > maxBlockLen {
		return "Block content is too long (max 500,000 characters)."
	}
	return ""
}

// validatePage checks page form inputs and returns the first error found.
func validatePage(title, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxPageLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}
