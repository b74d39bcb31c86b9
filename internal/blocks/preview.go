// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"fmt"
	"strings"
)

// previewLen is the maximum number of runes a text preview keeps.
const previewLen = 50

// Preview returns the listing summary of c, or "" for a nil payload.
func Preview(c Content) string {
	if c == nil {
		return ""
	}
	return c.Preview()
}

// Preview drops angle brackets and keeps the first 50 runes.
func (c Text) Preview() string {
	var b strings.Builder
	n := 0
	for _, r := range c.HTML {
		if r == '<' || r == '>' {
			continue
		}
		if n == previewLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func (c Gallery) Preview() string { return fmt.Sprintf("%d images", len(c.Images)) }
func (c Video) Preview() string   { return "Video: " + c.URL }
func (c Audio) Preview() string   { return fmt.Sprintf("%d audio files", len(c.Tracks)) }
func (c File) Preview() string    { return fmt.Sprintf("%d files", len(c.Files)) }
