package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lukecc25/Flowershop/internal/accounts"
	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/catalog"
	"github.com/lukecc25/Flowershop/internal/checkout"
	"github.com/lukecc25/Flowershop/internal/contact"
	"github.com/lukecc25/Flowershop/internal/orders"
	"github.com/lukecc25/Flowershop/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
	})
}

// handleDomainError maps package sentinel errors to HTTP responses. Anything
// unrecognized is an internal error; the cause is logged, not leaked.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrFlowerNotFound):
		respondError(w, http.StatusNotFound, "flower_not_found", "flower not found")
	case errors.Is(err, catalog.ErrInvalidFlower):
		respondError(w, http.StatusBadRequest, "invalid_flower", err.Error())
	case errors.Is(err, cart.ErrInvalidBouquet):
		respondError(w, http.StatusBadRequest, "invalid_bouquet", "bouquet does not exist")
	case errors.Is(err, cart.ErrInvalidReference):
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid cart item reference")
	case errors.Is(err, cart.ErrInvalidKind):
		respondError(w, http.StatusBadRequest, "invalid_kind", "invalid item kind")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "missing_fields", "please fill in all required fields")
	case errors.Is(err, checkout.ErrOrderPersistence):
		log.Printf("order persistence error: %v", err)
		respondError(w, http.StatusInternalServerError, "order_failed", "error processing order, please retry")
	case errors.Is(err, accounts.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, accounts.ErrEmailTaken):
		respondError(w, http.StatusConflict, "duplicate_email", "an account with this email already exists")
	case errors.Is(err, accounts.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, accounts.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, contact.ErrMessageNotFound):
		respondError(w, http.StatusNotFound, "message_not_found", "contact message not found")
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusUnauthorized, "session_expired", "session expired, please log in again")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
