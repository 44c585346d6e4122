package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lukecc25/Flowershop/internal/contact"
	"github.com/lukecc25/Flowershop/internal/domain"
)

type ContactHandler struct {
	messages contact.MessageRepository
}

func NewContactHandler(repo contact.MessageRepository) *ContactHandler {
	return &ContactHandler{messages: repo}
}

type ContactRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "name, email, subject and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_email", "email address is not valid")
		return
	}

	msg := &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.messages.Save(r.Context(), msg); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "thank you, we will be in touch"})
}

// List is an admin inbox view; unread messages come first.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.GetAll(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if messages == nil {
		messages = []*domain.ContactMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *ContactHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.messages.UnreadCount(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *ContactHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_message_id", "message id must be a positive integer")
		return
	}

	if err := h.messages.MarkAsRead(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "marked as read"})
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_message_id", "message id must be a positive integer")
		return
	}

	if err := h.messages.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}

func messageID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "message_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
