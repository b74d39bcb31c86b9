// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"portfolio/internal/blocks"
	"portfolio/internal/models"
	"portfolio/internal/ordering"
	"portfolio/internal/store"
)

// maxBlockForm caps block form submissions.
const maxBlockForm = 2 << 20

// BlocksList returns a project's blocks in display order.
func (a *Admin) BlocksList(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadProject(w, r)
	if !ok {
		return
	}
	list, err := a.blocks.ListByProject(r.Context(), p.ID)
	if err != nil {
		slog.Error("list blocks failed", "error", err, "project_id", p.ID)
		writeError(w, "Failed to list blocks.", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.ContentBlock{}
	}
	writeJSON(w, http.StatusOK, list)
}

// BlockCreate adds a block to a project from the form fields block_type,
// content and sort_order. An empty sort_order appends the block after the
// current last one.
func (a *Admin) BlockCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadProject(w, r)
	if !ok {
		return
	}
	if !parseBlockForm(w, r) {
		return
	}

	raw := r.FormValue("content")
	if msg := validateBlock(raw); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	order, set, err := formSortOrder(r)
	if err != nil {
		writeError(w, "Sort order must be a whole number.", http.StatusBadRequest)
		return
	}
	if !set {
		if order, err = a.order.Append(r.Context(), p.ID); err != nil {
			slog.Error("compute append position failed", "error", err, "project_id", p.ID)
			writeError(w, "Failed to create block.", http.StatusInternalServerError)
			return
		}
	}

	created, err := a.blocks.Create(r.Context(), &models.ContentBlock{
		ProjectID: p.ID,
		Content:   blocks.Decode(r.FormValue("block_type"), raw),
		SortOrder: order,
	})
	if err != nil {
		slog.Error("create block failed", "error", err, "project_id", p.ID)
		writeError(w, "Failed to create block.", http.StatusInternalServerError)
		return
	}

	slog.Info("block created", "id", created.ID, "project_id", p.ID, "type", created.Kind(), "sort_order", created.SortOrder)
	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// BlockUpdate replaces a block's payload from the same form fields as
// BlockCreate. An empty block_type keeps the block's current kind and an
// empty sort_order keeps its position.
func (a *Admin) BlockUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := a.blocks.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find block failed", "error", err, "id", id)
		writeError(w, "Failed to load block.", http.StatusInternalServerError)
		return
	}
	if b == nil {
		writeError(w, "Block not found.", http.StatusNotFound)
		return
	}
	if !parseBlockForm(w, r) {
		return
	}

	raw := r.FormValue("content")
	if msg := validateBlock(raw); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}
	kind := r.FormValue("block_type")
	if strings.TrimSpace(kind) == "" {
		kind = string(b.Kind())
	}
	b.Content = blocks.Decode(kind, raw)

	order, set, err := formSortOrder(r)
	if err != nil {
		writeError(w, "Sort order must be a whole number.", http.StatusBadRequest)
		return
	}
	if set {
		b.SortOrder = order
	}

	if err := a.blocks.Update(r.Context(), b); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "Block not found.", http.StatusNotFound)
			return
		}
		slog.Error("update block failed", "error", err, "id", id)
		writeError(w, "Failed to save block.", http.StatusInternalServerError)
		return
	}

	slog.Info("block updated", "id", b.ID, "type", b.Kind())
	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, b)
}

// BlockDelete removes a block.
func (a *Admin) BlockDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.blocks.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "Block not found.", http.StatusNotFound)
			return
		}
		slog.Error("delete block failed", "error", err, "id", id)
		writeError(w, "Failed to delete block.", http.StatusInternalServerError)
		return
	}

	slog.Info("block deleted", "id", id)
	a.pageCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// reorderInput is the JSON body of a reorder request.
type reorderInput struct {
	Updates []ordering.Update `json:"updates"`
}

// BlocksReorder applies a batch of sort order changes to a project's
// blocks. Entries naming blocks of other projects are ignored. The batch is
// not atomic; the response reports how many blocks changed.
func (a *Admin) BlocksReorder(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadProject(w, r)
	if !ok {
		return
	}
	var in reorderInput
	if !decodeJSON(w, r, &in) {
		return
	}

	updated := a.order.ApplyReorder(r.Context(), p.ID, in.Updates)

	slog.Info("blocks reordered", "project_id", p.ID, "requested", len(in.Updates), "updated", updated)
	if updated > 0 {
		a.pageCache.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func parseBlockForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBlockForm)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBlockForm)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		writeError(w, "Invalid form body.", http.StatusBadRequest)
		return false
	}
	return true
}

// formSortOrder reads the optional sort_order field. set is false when the
// field is absent or blank.
func formSortOrder(r *http.Request) (order int, set bool, err error) {
	v := strings.TrimSpace(r.FormValue("sort_order"))
	if v == "" {
		return 0, false, nil
	}
	order, err = strconv.Atoi(v)
	if err != nil {
		return 0, false, err
	}
	return order, true, nil
}
