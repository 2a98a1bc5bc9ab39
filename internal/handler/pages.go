package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kharelpawan/uaebackend/internal/store"
)

// PageHandler serves the fixed set of editable content pages.
type PageHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(st *store.Store, logger *slog.Logger) *PageHandler {
	return &PageHandler{store: st, logger: logger}
}

type pageRequest struct {
	TitleEN   string `json:"title_en"`
	TitleAR   string `json:"title_ar"`
	ContentEN string `json:"content_en"`
	ContentAR string `json:"content_ar"`
}

func (req *pageRequest) validate() string {
	switch {
	case len(req.TitleEN) > 255 || len(req.TitleAR) > 255:
		return "Title too long (max 255 chars)"
	case len(req.ContentEN) > 10000 || len(req.ContentAR) > 10000:
		return "Content too long (max 10000 chars)"
	}
	return ""
}

// List returns all pages.
// GET /api/pages
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListPages(r.Context())
	if err != nil {
		serverError(h.logger, w, r, "list pages", err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// Get returns a page by slug.
// GET /api/pages/{slug}
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.store.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Page not found")
			return
		}
		serverError(h.logger, w, r, "get page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update replaces a page's title and content pairs. Fields omitted from
// the payload become empty strings; a page is always a full replacement.
// PUT /api/pages/{slug}
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req pageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	page, err := h.store.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Page not found")
			return
		}
		serverError(h.logger, w, r, "get page", err)
		return
	}

	page.TitleEN = req.TitleEN
	page.TitleAR = req.TitleAR
	page.ContentEN = req.ContentEN
	page.ContentAR = req.ContentAR

	if err := h.store.UpdatePage(r.Context(), page); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Page not found")
			return
		}
		serverError(h.logger, w, r, "update page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
