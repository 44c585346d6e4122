package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lukecc25/Flowershop/internal/catalog"
	"github.com/lukecc25/Flowershop/internal/domain"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

type FlowerRequestDTO struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Photo    string  `json:"photo"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	flowers, err := h.catalog.ListFlowers(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if flowers == nil {
		flowers = []*domain.Flower{}
	}
	respondJSON(w, http.StatusOK, flowers)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := flowerID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower id must be a positive integer")
		return
	}

	flower, err := h.catalog.GetFlowerByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, flower)
}

// Create handles the admin add-flower form.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FlowerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	flower := &domain.Flower{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Photo:    req.Photo,
	}
	if err := h.catalog.AddFlower(r.Context(), flower); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, flower)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := flowerID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower id must be a positive integer")
		return
	}

	var req FlowerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	flower := &domain.Flower{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Photo:    req.Photo,
	}
	if err := h.catalog.UpdateFlower(r.Context(), flower); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, flower)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := flowerID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower id must be a positive integer")
		return
	}

	if err := h.catalog.DeleteFlower(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "flower deleted"})
}

func flowerID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "flower_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
