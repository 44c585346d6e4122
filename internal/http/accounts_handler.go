package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/lukecc25/Flowershop/internal/accounts"
	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/session"
)

type AccountsHandler struct {
	accounts *accounts.Service
	sessions *session.Manager
	carts    *cart.Service
	loader   *SessionLoader
}

func NewAccountsHandler(accountsService *accounts.Service, sessions *session.Manager, carts *cart.Service, loader *SessionLoader) *AccountsHandler {
	return &AccountsHandler{
		accounts: accountsService,
		sessions: sessions,
		carts:    carts,
		loader:   loader,
	}
}

type RegisterRequestDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountResponseDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  int    `json:"role_id"`
}

func (h *AccountsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AccountResponseDTO{ID: user.ID, Email: user.Email, Role: user.RoleID})
}

func (h *AccountsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sess, err := h.loader.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.sessions.Login(r.Context(), sess, user); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AccountResponseDTO{ID: user.ID, Email: user.Email, Role: user.RoleID})
}

func (h *AccountsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess != nil {
		if err := h.carts.Discard(r.Context(), sess.ID); err != nil {
			log.Printf("failed to discard cart on logout for session %s: %v", sess.ID, err)
		}
		if err := h.sessions.Destroy(r.Context(), sess.ID); err != nil {
			log.Printf("failed to destroy session %s: %v", sess.ID, err)
		}
	}

	ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AccountsHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil || !sess.IsLoggedIn() {
		respondError(w, http.StatusUnauthorized, "not_logged_in", "no active login session")
		return
	}

	user, err := h.accounts.GetUser(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AccountResponseDTO{ID: user.ID, Email: user.Email, Role: user.RoleID})
}
