package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okvist/gitnote/internal/index"
)

// NewRouter creates a chi router exposing the read-only preview
// routes. The server never mutates the index or the note files.
func NewRouter(store *index.Store) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)

	return r
}
