// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks models the payload of a project content block as a closed
// sum type. A block is exactly one of Text, Gallery, Video, Audio or File.
//
// Consumers that need to branch on the variant implement Visitor, which has
// one method per variant. Adding a variant therefore breaks every Visitor at
// compile time instead of silently falling through a type switch.
package blocks

import "strings"

// Kind is the lowercase discriminant of a block variant.
type Kind string

const (
	KindText    Kind = "text"
	KindGallery Kind = "gallery"
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindFile    Kind = "file"
)

// Kinds returns every block kind in canonical display order.
func Kinds() []Kind {
	return []Kind{KindText, KindGallery, KindVideo, KindAudio, KindFile}
}

// ParseKind matches s case-insensitively against the known kinds. It does
// not trim: " gallery " is not a known kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(s))
	for _, known := range Kinds() {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Content is the variant payload of a content block. It is sealed: only the
// types in this package implement it.
type Content interface {
	// Kind returns the discriminant derived from the variant itself.
	Kind() Kind
	// Preview returns a short, tag-free summary for admin listings.
	Preview() string
	// Accept dispatches to the matching Visitor method.
	Accept(v Visitor)

	sealed()
}

// Visitor handles each block variant. Implementations must cover all of them.
type Visitor interface {
	VisitText(Text)
	VisitGallery(Gallery)
	VisitVideo(Video)
	VisitAudio(Audio)
	VisitFile(File)
}

// Text is raw rich-text HTML authored in the admin editor.
type Text struct {
	HTML string
}

// Gallery is an ordered list of image URLs; display order is list order.
type Gallery struct {
	Images []string
}

// Video is a single embeddable video URL.
type Video struct {
	URL string
}

// Track is one entry of an audio block.
type Track struct {
	URL   string
	Title string
}

// Audio is an ordered list of audio tracks.
type Audio struct {
	Tracks []Track
}

// Attachment is one downloadable file of a file block.
type Attachment struct {
	URL         string
	Description string
}

// File is an ordered list of downloadable attachments.
type File struct {
	Files []Attachment
}

func (Text) Kind() Kind    { return KindText }
func (Gallery) Kind() Kind { return KindGallery }
func (Video) Kind() Kind   { return KindVideo }
func (Audio) Kind() Kind   { return KindAudio }
func (File) Kind() Kind    { return KindFile }

func (c Text) Accept(v Visitor)    { v.VisitText(c) }
func (c Gallery) Accept(v Visitor) { v.VisitGallery(c) }
func (c Video) Accept(v Visitor)   { v.VisitVideo(c) }
func (c Audio) Accept(v Visitor)   { v.VisitAudio(c) }
func (c File) Accept(v Visitor)    { v.VisitFile(c) }

func (Text) sealed()    {}
func (Gallery) sealed() {}
func (Video) sealed()   {}
func (Audio) sealed()   {}
func (File) sealed()    {}

// Empty returns the zero payload of a kind with non-nil collections.
// Unknown kinds yield an empty Text.
func Empty(k Kind) Content {
	switch k {
	case KindGallery:
		return Gallery{Images: []string{}}
	case KindVideo:
		return Video{}
	case KindAudio:
		return Audio{Tracks: []Track{}}
	case KindFile:
		return File{Files: []Attachment{}}
	default:
		return Text{}
	}
}
