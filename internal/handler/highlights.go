package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/store"
)

const defaultHighlightIcon = "CheckCircle"

// HighlightHandler serves CRUD for the public site's highlight strip.
type HighlightHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHighlightHandler creates a new HighlightHandler.
func NewHighlightHandler(st *store.Store, logger *slog.Logger) *HighlightHandler {
	return &HighlightHandler{store: st, logger: logger}
}

type highlightRequest struct {
	TextEN    string `json:"text_en"`
	TextAR    string `json:"text_ar"`
	Icon      string `json:"icon"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

func (req *highlightRequest) validate() string {
	req.TextEN = strings.TrimSpace(req.TextEN)
	req.TextAR = strings.TrimSpace(req.TextAR)
	switch {
	case req.TextEN == "" || len(req.TextEN) > 255:
		return "English text is required (max 255 chars)"
	case req.TextAR == "" || len(req.TextAR) > 255:
		return "Arabic text is required (max 255 chars)"
	case len(req.Icon) > 50:
		return "Icon name too long (max 50 chars)"
	case req.SortOrder < 0:
		return "sort_order must not be negative"
	}
	return ""
}

func (req *highlightRequest) apply(h *model.Highlight) {
	h.TextEN = req.TextEN
	h.TextAR = req.TextAR
	h.Icon = req.Icon
	if h.Icon == "" {
		h.Icon = defaultHighlightIcon
	}
	h.IsActive = req.IsActive == nil || *req.IsActive
	h.SortOrder = req.SortOrder
}

// ListActive returns the active highlights shown on the public site.
// GET /api/highlights
func (h *HighlightHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	highlights, err := h.store.ListHighlights(r.Context(), true)
	if err != nil {
		serverError(h.logger, w, r, "list highlights", err)
		return
	}
	writeJSON(w, http.StatusOK, highlights)
}

// ListAll returns every highlight including inactive ones.
// GET /api/highlights/all
func (h *HighlightHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	highlights, err := h.store.ListHighlights(r.Context(), false)
	if err != nil {
		serverError(h.logger, w, r, "list all highlights", err)
		return
	}
	writeJSON(w, http.StatusOK, highlights)
}

// Create adds a new highlight.
// POST /api/highlights
func (h *HighlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var hl model.Highlight
	req.apply(&hl)

	if err := h.store.CreateHighlight(r.Context(), &hl); err != nil {
		serverError(h.logger, w, r, "create highlight", err)
		return
	}
	writeJSON(w, http.StatusCreated, hl)
}

// Update replaces an existing highlight's fields.
// PUT /api/highlights/{id}
func (h *HighlightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid highlight ID")
		return
	}

	var req highlightRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.store.GetHighlight(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Highlight not found")
			return
		}
		serverError(h.logger, w, r, "get highlight", err)
		return
	}

	req.apply(existing)
	if err := h.store.UpdateHighlight(r.Context(), existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Highlight not found")
			return
		}
		serverError(h.logger, w, r, "update highlight", err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// Delete removes a highlight by ID.
// DELETE /api/highlights/{id}
func (h *HighlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid highlight ID")
		return
	}

	if err := h.store.DeleteHighlight(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Highlight not found")
			return
		}
		serverError(h.logger, w, r, "delete highlight", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Highlight deleted successfully",
	})
}
