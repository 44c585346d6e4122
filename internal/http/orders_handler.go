package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lukecc25/Flowershop/internal/domain"
	"github.com/lukecc25/Flowershop/internal/orders"
)

type OrdersHandler struct {
	orders orders.OrderRepository
}

func NewOrdersHandler(repo orders.OrderRepository) *OrdersHandler {
	return &OrdersHandler{orders: repo}
}

// List returns the logged-in user's orders, newest first.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil || !sess.IsLoggedIn() {
		respondError(w, http.StatusUnauthorized, "not_logged_in", "login required to view order history")
		return
	}

	userOrders, err := h.orders.ListOrdersByUserID(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if userOrders == nil {
		userOrders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, userOrders)
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil || !sess.IsLoggedIn() {
		respondError(w, http.StatusUnauthorized, "not_logged_in", "login required to view orders")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// Guests' orders have no owner; admins may inspect any order.
	if !sess.IsAdmin() {
		if order.UserID == nil || *order.UserID != sess.UserID {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
	}

	respondJSON(w, http.StatusOK, order)
}
