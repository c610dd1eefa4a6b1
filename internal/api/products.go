package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type createProductRequest struct {
	BusinessID  string  `json:"business_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

type productResponse struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p store.Product) productResponse {
	return productResponse{
		ID:          p.ID.String(),
		BusinessID:  p.BusinessID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func handleCreateProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", false, nil)
		return
	}
	if req.Price < 0 || req.Stock < 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "price and stock must not be negative", false, nil)
		return
	}
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "business_id must be a valid uuid", false, nil)
		return
	}

	product, err := deps.Store.CreateProduct(r.Context(), store.CreateProductInput{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func handleGetProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	product, err := deps.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func handleListProductsByBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	businessID, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	products, err := deps.Store.ListProductsByBusiness(r.Context(), businessID)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func handleUpdateProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}

	product, err := deps.Store.UpdateProduct(r.Context(), id, store.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func handleDeleteProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	deleted, err := deps.Store.DeleteProduct(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	if !deleted {
		writeError(r.Context(), w, http.StatusNotFound, "NOT_FOUND", "resource not found", false, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
