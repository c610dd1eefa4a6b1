package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type createMarketplaceItemRequest struct {
	SellerID    string  `json:"seller_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Condition   string  `json:"condition"`
}

type marketplaceItemResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Condition   string    `json:"condition"`
	IsSold      bool      `json:"is_sold"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMarketplaceItemResponse(item store.MarketplaceItem) marketplaceItemResponse {
	return marketplaceItemResponse{
		ID:          item.ID.String(),
		SellerID:    item.SellerID.String(),
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		Condition:   string(item.Condition),
		IsSold:      item.IsSold,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func handleCreateMarketplaceItem(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req createMarketplaceItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "title is required", false, nil)
		return
	}
	condition := store.ItemCondition(req.Condition)
	if !condition.Valid() {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "condition must be one of new, like_new, good, fair, poor", false, nil)
		return
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "seller_id must be a valid uuid", false, nil)
		return
	}

	item, err := deps.Store.CreateMarketplaceItem(r.Context(), store.CreateMarketplaceItemInput{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   condition,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMarketplaceItemResponse(item))
}

func handleListMarketplaceItems(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	items, err := deps.Store.ListMarketplaceItems(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	out := make([]marketplaceItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toMarketplaceItemResponse(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func handleGetMarketplaceItem(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	item, err := deps.Store.GetMarketplaceItem(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMarketplaceItemResponse(item))
}

func handleDeleteMarketplaceItem(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	deleted, err := deps.Store.DeleteMarketplaceItem(r.Context(), id)
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
