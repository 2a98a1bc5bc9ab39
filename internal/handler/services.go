package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/store"
)

const defaultServiceIcon = "Wrench"

// ServiceHandler serves CRUD for the company's public service cards.
type ServiceHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(st *store.Store, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{store: st, logger: logger}
}

// serviceRequest is the payload accepted by create and update. Booleans
// default to true and missing fields to their display defaults, matching
// the public site's expectations.
type serviceRequest struct {
	TitleEN       string `json:"title_en"`
	TitleAR       string `json:"title_ar"`
	DescriptionEN string `json:"description_en"`
	DescriptionAR string `json:"description_ar"`
	Icon          string `json:"icon"`
	IsActive      *bool  `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}

func (req *serviceRequest) validate() string {
	req.TitleEN = strings.TrimSpace(req.TitleEN)
	req.TitleAR = strings.TrimSpace(req.TitleAR)
	switch {
	case req.TitleEN == "" || len(req.TitleEN) > 255:
		return "English title is required (max 255 chars)"
	case req.TitleAR == "" || len(req.TitleAR) > 255:
		return "Arabic title is required (max 255 chars)"
	case len(req.DescriptionEN) > 2000 || len(req.DescriptionAR) > 2000:
		return "Description too long (max 2000 chars)"
	case req.SortOrder < 0:
		return "sort_order must not be negative"
	}
	return ""
}

func (req *serviceRequest) apply(svc *model.Service) {
	svc.TitleEN = req.TitleEN
	svc.TitleAR = req.TitleAR
	svc.DescriptionEN = req.DescriptionEN
	svc.DescriptionAR = req.DescriptionAR
	svc.Icon = req.Icon
	if svc.Icon == "" {
		svc.Icon = defaultServiceIcon
	}
	svc.IsActive = req.IsActive == nil || *req.IsActive
	svc.SortOrder = req.SortOrder
}

// ListActive returns the active services shown on the public site.
// GET /api/services
func (h *ServiceHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServices(r.Context(), true)
	if err != nil {
		serverError(h.logger, w, r, "list services", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ListAll returns every service including inactive ones, for the admin UI.
// GET /api/services/all
func (h *ServiceHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServices(r.Context(), false)
	if err != nil {
		serverError(h.logger, w, r, "list all services", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// Get returns a single service by ID.
// GET /api/services/{id}
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	svc, err := h.store.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service not found")
			return
		}
		serverError(h.logger, w, r, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Create adds a new service.
// POST /api/services
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var svc model.Service
	req.apply(&svc)

	if err := h.store.CreateService(r.Context(), &svc); err != nil {
		serverError(h.logger, w, r, "create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// Update replaces an existing service's fields.
// PUT /api/services/{id}
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req serviceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.store.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service not found")
			return
		}
		serverError(h.logger, w, r, "get service", err)
		return
	}

	req.apply(existing)
	if err := h.store.UpdateService(r.Context(), existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service not found")
			return
		}
		serverError(h.logger, w, r, "update service", err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// Delete removes a service by ID.
// DELETE /api/services/{id}
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	if err := h.store.DeleteService(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service not found")
			return
		}
		serverError(h.logger, w, r, "delete service", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Service deleted successfully",
	})
}
