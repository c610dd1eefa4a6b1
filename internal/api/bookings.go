package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nexdoor/nexdoor/internal/store"
)

type createBookingRequest struct {
	ServiceID string    `json:"service_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

type bookingResponse struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResponse(b store.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID.String(),
		ServiceID: b.ServiceID.String(),
		UserID:    b.UserID.String(),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func handleCreateBooking(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "service_id must be a valid uuid", false, nil)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "user_id must be a valid uuid", false, nil)
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "end_time must be after start_time", false, nil)
		return
	}

	booking, err := deps.Store.CreateBooking(r.Context(), store.CreateBookingInput{
		ServiceID: serviceID,
		UserID:    userID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

// handleListBookings lists the bookings of one user, selected by the
// user_id query parameter.
func handleListBookings(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "user_id query parameter must be a valid uuid", false, nil)
		return
	}
	bookings, err := deps.Store.ListBookingsByUser(r.Context(), userID)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out})
}

func handleUpdateBookingStatus(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid uuid", false, nil)
		return
	}
	var req updateBookingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	status := store.BookingStatus(req.Status)
	if !status.Valid() {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of pending, confirmed, cancelled, completed", false, nil)
		return
	}

	booking, err := deps.Store.UpdateBookingStatus(r.Context(), id, status)
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}
