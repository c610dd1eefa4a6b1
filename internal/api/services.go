package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type createServiceRequest struct {
	BusinessID  string  `json:"business_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
}

type serviceResponse struct {
	ID          string  `json:"id"`
	BusinessID  string  `json:"business_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"is_active"`
}

func toServiceResponse(s store.Service) serviceResponse {
	return serviceResponse{
		ID:          s.ID.String(),
		BusinessID:  s.BusinessID.String(),
		Name:        s.Name,
		Description: s.Description,
		Duration:    s.Duration,
		Price:       s.Price,
		IsActive:    s.IsActive,
	}
}

func handleCreateService(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", false, nil)
		return
	}
	if req.Duration <= 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "duration must be positive", false, nil)
		return
	}
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "business_id must be a valid uuid", false, nil)
		return
	}

	service, err := deps.Store.CreateService(r.Context(), store.CreateServiceInput{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(service))
}

func handleGetService(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	service, err := deps.Store.GetService(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(service))
}

func handleListServicesByBusiness(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	businessID, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	services, err := deps.Store.ListServicesByBusiness(r.Context(), businessID)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": out})
}

func handleDeleteService(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	deleted, err := deps.Store.DeleteService(r.Context(), id)
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
