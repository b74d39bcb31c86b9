// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Resource hints accepted by Upload.
const (
	HintImage = "image"
	HintVideo = "video"
	HintRaw   = "raw"
	HintAuto  = "auto"
)

var (
	// ErrEmptyUpload is returned for a zero-length file.
	ErrEmptyUpload = errors.New("empty upload")
	// ErrUnknownHint is returned for a resource hint outside the known set.
	ErrUnknownHint = errors.New("unknown resource type")
	// ErrTypeMismatch is returned when the content does not match the hint.
	ErrTypeMismatch = errors.New("file content does not match resource type")
)

// ObjectStore is where uploaded bytes end up. *Client satisfies it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Uploader turns raw bytes into a hosted URL.
type Uploader struct {
	objects ObjectStore
}

// NewUploader creates an Uploader over the given object store.
func NewUploader(objects ObjectStore) *Uploader {
	return &Uploader{objects: objects}
}

// Upload stores data under uploads/<type>/<uuid><ext> and returns its public
// URL. The hint is one of image, video, raw or auto; auto derives the type
// from the sniffed content. Audio is stored under video.
func (u *Uploader) Upload(ctx context.Context, data []byte, filename, hint string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}

	contentType := sniff(data, filename)
	sniffed := resourceType(contentType)

	switch hint = strings.ToLower(strings.TrimSpace(hint)); hint {
	case "", HintAuto:
		hint = sniffed
	case HintImage, HintVideo:
		if sniffed != hint {
			return "", fmt.Errorf("%w: %s is %s", ErrTypeMismatch, filename, contentType)
		}
	case HintRaw:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHint, hint)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	key := "uploads/" + hint + "/" + uuid.NewString() + ext

	if err := u.objects.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return u.objects.FileURL(key), nil
}

// sniff detects the content type from the first bytes, falling back to the
// file extension when sniffing is inconclusive.
func sniff(data []byte, filename string) string {
	ct := http.DetectContentType(data)
	ext := strings.ToLower(filepath.Ext(filename))

	// DetectContentType reports SVGs as XML or plain text.
	if ext == ".svg" && (strings.Contains(ct, "xml") || strings.HasPrefix(ct, "text/plain")) {
		return "image/svg+xml"
	}
	if ct == "application/octet-stream" || strings.HasPrefix(ct, "text/plain") {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return ct
}

func resourceType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return HintImage
	case strings.HasPrefix(contentType, "video/"), strings.HasPrefix(contentType, "audio/"):
		return HintVideo
	default:
		return HintRaw
	}
}

// extensionFromType maps a sniffed content type to a file extension.
func extensionFromType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	switch base {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "audio/mpeg":
		return ".mp3"
	case "audio/wave":
		return ".wav"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
