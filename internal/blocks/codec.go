// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilContent is returned when encoding a block without a payload.
var ErrNilContent = errors.New("blocks: nil content")

// tags maps kinds to the type tag embedded in the persisted JSON envelope.
var tags = map[Kind]string{
	KindText:    "Text",
	KindGallery: "Gallery",
	KindVideo:   "Video",
	KindAudio:   "Audio",
	KindFile:    "File",
}

// envelope is the persisted form: {"type":"Gallery","data":[...]}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode converts the raw text an admin form submits into a payload.
//
// text and video pass raw through verbatim. gallery expects a JSON list of
// URLs; audio and file expect a JSON list of [url, label] pairs. Text that
// does not parse yields the empty collection of the requested kind, so a bad
// paste never blocks a save. Unknown block types fall back to Text.
func Decode(blockType, raw string) Content {
	kind, ok := ParseKind(blockType)
	if !ok {
		return Text{HTML: raw}
	}

	switch kind {
	case KindVideo:
		return Video{URL: raw}
	case KindGallery:
		var images []string
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			return Empty(KindGallery)
		}
		return Gallery{Images: orEmpty(images)}
	case KindAudio:
		var tracks []Track
		if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
			return Empty(KindAudio)
		}
		return Audio{Tracks: orEmpty(tracks)}
	case KindFile:
		var files []Attachment
		if err := json.Unmarshal([]byte(raw), &files); err != nil {
			return Empty(KindFile)
		}
		return File{Files: orEmpty(files)}
	default:
		return Text{HTML: raw}
	}
}

// Marshal encodes a payload into its persisted JSON envelope. Invalid UTF-8
// in strings is replaced with U+FFFD, so such payloads do not round-trip;
// callers reject it before saving.
func Marshal(c Content) ([]byte, error) {
	if c == nil {
		return nil, ErrNilContent
	}
	enc := &encoder{}
	c.Accept(enc)

	data, err := json.Marshal(enc.data)
	if err != nil {
		return nil, fmt.Errorf("encode %s block: %w", c.Kind(), err)
	}
	return json.Marshal(envelope{Type: tags[c.Kind()], Data: data})
}

// Unmarshal decodes a persisted JSON envelope. Unlike Decode it reports
// malformed input, since stored payloads are written only by Marshal.
func Unmarshal(b []byte) (Content, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode block envelope: %w", err)
	}
	kind, ok := ParseKind(env.Type)
	if !ok {
		return nil, fmt.Errorf("decode block envelope: unknown type %q", env.Type)
	}
	if len(env.Data) == 0 {
		return Empty(kind), nil
	}

	var err error
	var c Content
	switch kind {
	case KindText:
		var s string
		err = json.Unmarshal(env.Data, &s)
		c = Text{HTML: s}
	case KindVideo:
		var s string
		err = json.Unmarshal(env.Data, &s)
		c = Video{URL: s}
	case KindGallery:
		var images []string
		err = json.Unmarshal(env.Data, &images)
		c = Gallery{Images: orEmpty(images)}
	case KindAudio:
		var tracks []Track
		err = json.Unmarshal(env.Data, &tracks)
		c = Audio{Tracks: orEmpty(tracks)}
	case KindFile:
		var files []Attachment
		err = json.Unmarshal(env.Data, &files)
		c = File{Files: orEmpty(files)}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s block: %w", kind, err)
	}
	return c, nil
}

// FormText is the inverse of Decode: it renders a payload back into the raw
// text an edit form is pre-filled with.
func FormText(c Content) string {
	if c == nil {
		return ""
	}
	enc := &encoder{}
	c.Accept(enc)
	if s, ok := enc.data.(string); ok {
		return s
	}
	b, err := json.Marshal(enc.data)
	if err != nil {
		return ""
	}
	return string(b)
}

// encoder collects the JSON-ready data of a payload.
type encoder struct {
	data any
}

func (e *encoder) VisitText(c Text)       { e.data = c.HTML }
func (e *encoder) VisitGallery(c Gallery) { e.data = orEmpty(c.Images) }
func (e *encoder) VisitVideo(c Video)     { e.data = c.URL }
func (e *encoder) VisitAudio(c Audio)     { e.data = orEmpty(c.Tracks) }
func (e *encoder) VisitFile(c File)       { e.data = orEmpty(c.Files) }

// MarshalJSON encodes a track as a [url, title] pair.
func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.URL, t.Title})
}

// UnmarshalJSON decodes a [url, title] pair.
func (t *Track) UnmarshalJSON(b []byte) error {
	url, title, err := decodePair(b)
	if err != nil {
		return err
	}
	t.URL, t.Title = url, title
	return nil
}

// MarshalJSON encodes an attachment as a [url, description] pair.
func (a Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{a.URL, a.Description})
}

// UnmarshalJSON decodes a [url, description] pair.
func (a *Attachment) UnmarshalJSON(b []byte) error {
	url, desc, err := decodePair(b)
	if err != nil {
		return err
	}
	a.URL, a.Description = url, desc
	return nil
}

func decodePair(b []byte) (string, string, error) {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return "", "", err
	}
	if len(pair) != 2 {
		return "", "", fmt.Errorf("expected a 2-element array, got %d elements", len(pair))
	}
	return pair[0], pair[1], nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Value adapts Content to a JSONB column.
type Value struct {
	Content Content
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	b, err := Marshal(v.Content)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (v *Value) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	case nil:
		return fmt.Errorf("scan block content: %w", ErrNilContent)
	default:
		return fmt.Errorf("scan block content: unsupported type %T", src)
	}
	c, err := Unmarshal(b)
	if err != nil {
		return err
	}
	v.Content = c
	return nil
}

// String returns the persisted form, mainly for logs.
func (v Value) String() string {
	b, err := Marshal(v.Content)
	if err != nil {
		return ""
	}
	return string(b)
}
