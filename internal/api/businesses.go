package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type createBusinessRequest struct {
	OwnerID        string `json:"owner_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	BusinessType   string `json:"business_type"`
	Location       string `json:"location"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	AllowsDelivery bool   `json:"allows_delivery"`
}

type updateBusinessRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Location       *string `json:"location"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	AllowsDelivery *bool   `json:"allows_delivery"`
}

type businessResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	BusinessType   string    `json:"business_type"`
	Location       string    `json:"location"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Website        string    `json:"website"`
	IsActive       bool      `json:"is_active"`
	AllowsDelivery bool      `json:"allows_delivery"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toBusinessResponse(b store.Business) businessResponse {
	return businessResponse{
		ID:             b.ID.String(),
		OwnerID:        b.OwnerID.String(),
		Name:           b.Name,
		Description:    b.Description,
		Category:       b.Category,
		BusinessType:   b.BusinessType,
		Location:       b.Location,
		Address:        b.Address,
		Phone:          b.Phone,
		Email:          b.Email,
		Website:        b.Website,
		IsActive:       b.IsActive,
		AllowsDelivery: b.AllowsDelivery,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func handleCreateBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", false, nil)
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "owner_id must be a valid uuid", false, nil)
		return
	}

	business, err := deps.Store.CreateBusiness(r.Context(), store.CreateBusinessInput{
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		BusinessType:   req.BusinessType,
		Location:       req.Location,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Website:        req.Website,
		AllowsDelivery: req.AllowsDelivery,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBusinessResponse(business))
}

func handleListBusinesses(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	businesses, err := deps.Store.ListBusinesses(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	out := make([]businessResponse, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, toBusinessResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"businesses": out})
}

func handleGetBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	business, err := deps.Store.GetBusiness(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessResponse(business))
}

func handleUpdateBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	var req updateBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}

	business, err := deps.Store.UpdateBusiness(r.Context(), id, store.UpdateBusinessInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Location:       req.Location,
		Address:        req.Address,
		Phone:          req.Phone,
		AllowsDelivery: req.AllowsDelivery,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessResponse(business))
}

func handleDeleteBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	deleted, err := deps.Store.DeleteBusiness(r.Context(), id)
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

func listOptionsFromQuery(r *http.Request) store.ListOptions {
	opts := store.ListOptions{}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		opts.Offset = offset
	}
	opts.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	return opts
}
