// Package api implements the read-only HTML preview server using chi.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okvist/gitnote/internal/index"
)

// Handler serves index records over HTTP. The index is reloaded per
// request so a build running alongside the server is picked up
// without restarts.
type Handler struct {
	store *index.Store
}

// NewHandler creates a new Handler backed by the index store.
func NewHandler(store *index.Store) *Handler {
	return &Handler{store: store}
}

// ListNotes handles GET /notes, returning every index record.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	doc, err := h.store.Load()
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": doc.Notes,
		"total": doc.Count,
	})
}

// GetNote handles GET /notes/{id}, serving the stored rendered HTML.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	doc, err := h.store.Load()
	if err != nil {
		slog.Error("get note failed", slog.Int("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	rec, ok := doc.FindByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rec.Content))
}
