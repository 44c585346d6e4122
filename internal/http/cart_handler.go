package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/checkout"
	"github.com/lukecc25/Flowershop/internal/domain"
)

type CartHandler struct {
	cart     *cart.Service
	checkout *checkout.Service
	sessions *SessionLoader
}

func NewCartHandler(cartService *cart.Service, checkoutService *checkout.Service, sessions *SessionLoader) *CartHandler {
	return &CartHandler{
		cart:     cartService,
		checkout: checkoutService,
		sessions: sessions,
	}
}

type AddItemRequestDTO struct {
	FlowerID     int64  `json:"flower_id"`
	Kind         string `json:"kind"`
	Quantity     int    `json:"quantity"`
	BouquetIndex int    `json:"bouquet_index"`
}

type MoveItemRequestDTO struct {
	FromBouquet *int `json:"from_bouquet"`
	ToBouquet   *int `json:"to_bouquet"`
	ItemIndex   *int `json:"item_index"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type UpdateDescriptionRequestDTO struct {
	Description string `json:"description"`
}

type CartCountResponseDTO struct {
	Count int `json:"count"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	c, err := h.cart.Cart(r.Context(), sess.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	// No session yet means an untouched, therefore empty, cart.
	sess := SessionFromContext(r.Context())
	if sess == nil {
		respondJSON(w, http.StatusOK, CartCountResponseDTO{Count: 0})
		return
	}

	count, err := h.cart.Count(r.Context(), sess.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartCountResponseDTO{Count: count})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.FlowerID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower_id must be positive")
		return
	}
	if req.Kind == "" {
		req.Kind = domain.ItemKindFlower
	}

	c, err := h.cart.Add(r.Context(), sess.ID, req.FlowerID, req.Kind, req.Quantity, req.BouquetIndex)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) AddBouquet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	c, err := h.cart.AddBouquet(r.Context(), sess.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req MoveItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid cart item reference")
		return
	}
	// Absent indices are the same failure as out-of-range ones.
	if req.FromBouquet == nil || req.ToBouquet == nil || req.ItemIndex == nil {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid cart item reference")
		return
	}

	c, err := h.cart.MoveItem(r.Context(), sess.ID, *req.FromBouquet, *req.ToBouquet, *req.ItemIndex)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	bouquetIndex, itemIndex, ok := cartIndices(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid cart item reference")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}

	c, err := h.cart.UpdateQuantity(r.Context(), sess.ID, bouquetIndex, itemIndex, *req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	bouquetIndex, ok := parseBouquetIndex(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid bouquet reference")
		return
	}

	var req UpdateDescriptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.cart.UpdateBouquetDescription(r.Context(), sess.ID, bouquetIndex, req.Description)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	bouquetIndex, itemIndex, ok := cartIndices(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid cart item reference")
		return
	}

	c, err := h.cart.RemoveItem(r.Context(), sess.ID, bouquetIndex, itemIndex)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveBouquet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	bouquetIndex, ok := parseBouquetIndex(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_reference", "invalid bouquet reference")
		return
	}

	c, err := h.cart.RemoveBouquet(r.Context(), sess.ID, bouquetIndex)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	c, err := h.cart.Clear(r.Context(), sess.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.EnsureSession(w, r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var info checkout.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.Checkout(r.Context(), sess.ID, sess.UserID, info)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func parseBouquetIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "bouquet"))
	if err != nil {
		return 0, false
	}
	return idx, true
}

func cartIndices(r *http.Request) (int, int, bool) {
	b, ok := parseBouquetIndex(r)
	if !ok {
		return 0, 0, false
	}
	item, err := strconv.Atoi(chi.URLParam(r, "item"))
	if err != nil {
		return 0, 0, false
	}
	return b, item, true
}
