package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/storage"
)

// maxUploadSize is the maximum allowed file upload size (50 MB).
const maxUploadSize = 50 << 20

// Upload handles a multipart file upload to object storage. The file goes
// in the "file" field; "resource_type" is one of image, video, raw or auto
// (the default). Responds with the public URL of the stored file.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if a.uploader == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "File too large. Maximum size is 50 MB.", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Failed to read file.", http.StatusInternalServerError)
		return
	}

	hint := strings.TrimSpace(r.FormValue("resource_type"))
	if hint == "" {
		hint = storage.HintAuto
	}

	url, err := a.uploader.Upload(r.Context(), data, header.Filename, hint)
	switch {
	case errors.Is(err, storage.ErrEmptyUpload):
		writeError(w, "The uploaded file is empty.", http.StatusBadRequest)
		return
	case errors.Is(err, storage.ErrUnknownHint):
		writeError(w, "Unknown resource type.", http.StatusBadRequest)
		return
	case errors.Is(err, storage.ErrTypeMismatch):
		writeError(w, "File content does not match the resource type.", http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("upload failed", "error", err, "filename", header.Filename)
		writeError(w, "Failed to upload file.", http.StatusInternalServerError)
		return
	}

	slog.Info("media uploaded", "filename", header.Filename, "size", len(data), "url", url)
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
