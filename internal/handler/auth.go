package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kharelpawan/uaebackend/internal/auth"
	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/server/middleware"
	"github.com/kharelpawan/uaebackend/internal/store"
)

// AuthHandler serves login, session introspection, and first-run admin
// bootstrap.
type AuthHandler struct {
	store   *store.Store
	authSvc *auth.Service
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st *store.Store, authSvc *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: st, authSvc: authSvc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	Admin model.AdminSummary `json:"admin"`
}

// Login authenticates the admin and returns a JWT session token plus the
// public admin summary. Wrong password and unknown email produce the
// identical response so the endpoint cannot be used to enumerate accounts.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, admin, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		serverError(h.logger, w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Admin: admin.Summary(),
	})
}

// Me returns the authenticated admin's public fields. The claims only
// carry id and email, so the record is re-read from the store; it can
// have vanished since the token was issued.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	admin, err := h.store.GetAdminByID(r.Context(), claims.AdminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		serverError(h.logger, w, r, "get admin", err)
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

// Setup creates the first admin account from configured credentials. It
// requires no authentication because no admin exists yet; once one does,
// every call fails with 403.
// POST /api/auth/setup
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	email, err := h.authSvc.Bootstrap(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			writeError(w, http.StatusForbidden, "Admin already exists")
			return
		}
		serverError(h.logger, w, r, "bootstrap", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Admin created successfully",
		"email":   email,
	})
}
