package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/store"
)

const (
	messagesDefaultLimit = 20
	messagesMaxLimit     = 100
)

// MessageHandler serves the public contact form and the admin inbox.
type MessageHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(st *store.Store, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{store: st, logger: logger}
}

type messageRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (req *messageRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	switch {
	case req.Name == "" || len(req.Name) > 100:
		return "Name is required (max 100 chars)"
	case len(req.Phone) > 50:
		return "Phone too long (max 50 chars)"
	case req.Message == "" || len(req.Message) > 2000:
		return "Message is required (max 2000 chars)"
	}
	return ""
}

// Create records a contact form submission. This is the only
// unauthenticated write endpoint in the API.
// POST /api/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	message := model.Message{
		Name:  req.Name,
		Phone: req.Phone,
		Body:  req.Message,
	}
	if err := h.store.CreateMessage(r.Context(), &message); err != nil {
		serverError(h.logger, w, r, "create message", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message sent successfully",
		"id":      message.ID,
	})
}

// List returns one page of messages, newest first, with pagination meta
// and the unread counter.
// GET /api/messages?page=1&limit=20
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := clampInt(queryInt(r, "limit", messagesDefaultLimit), 1, messagesMaxLimit)
	offset := (page - 1) * limit

	messages, total, err := h.store.ListMessages(r.Context(), limit, offset)
	if err != nil {
		serverError(h.logger, w, r, "list messages", err)
		return
	}
	unread, err := h.store.CountUnreadMessages(r.Context())
	if err != nil {
		serverError(h.logger, w, r, "count unread messages", err)
		return
	}

	if messages == nil {
		messages = []model.Message{}
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	writeJSON(w, http.StatusOK, model.MessageList{
		Messages: messages,
		Pagination: model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
		UnreadCount: unread,
	})
}

// Get returns a single message by ID.
// GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	msg, err := h.store.GetMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		serverError(h.logger, w, r, "get message", err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// MarkRead flags a message as read.
// PATCH /api/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.store.MarkMessageRead(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		serverError(h.logger, w, r, "mark message read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Message marked as read",
	})
}

// Delete removes a message by ID.
// DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.store.DeleteMessage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		serverError(h.logger, w, r, "delete message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Message deleted successfully",
	})
}
