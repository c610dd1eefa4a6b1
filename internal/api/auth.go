package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nexdoor/nexdoor/internal/store"
)

type signupRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`
}

type loginRequest struct {
	UID string `json:"uid"`
}

type userResponse struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Location    string    `json:"location"`
	IsActive    bool      `json:"is_active"`
	IsBusiness  bool      `json:"is_business"`
	CreatedAt   time.Time `json:"created_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}

func toUserResponse(user store.User) userResponse {
	return userResponse{
		ID:          user.ID.String(),
		UID:         user.UID,
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Location:    user.Location,
		IsActive:    user.IsActive,
		IsBusiness:  user.IsBusiness,
		CreatedAt:   user.CreatedAt,
	}
}

func handleSignup(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.UID) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "uid and email are required", false, nil)
		return
	}

	if _, err := deps.Store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(r.Context(), w, http.StatusConflict, "EMAIL_TAKEN", "email already registered", false, nil)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeStoreError(r.Context(), w, err)
		return
	}

	user, err := deps.Store.CreateUser(r.Context(), store.CreateUserInput{
		UID:         req.UID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
	})
	if err != nil {
		writeStoreError(r.Context(), w, err)
		return
	}

	resp := authResponse{User: toUserResponse(user)}
	if deps.IssueToken != nil {
		token, err := deps.IssueToken(user.ID, user.UID, user.Email)
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", err.Error(), true, nil)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleLogin exchanges an upstream identity provider uid for an access
// token. Password verification happens upstream; this service only
// confirms the account exists and is active.
func handleLogin(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), false, nil)
		return
	}
	if strings.TrimSpace(req.UID) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "uid is required", false, nil)
		return
	}

	user, err := deps.Store.GetUserByUID(r.Context(), req.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(r.Context(), w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown uid", false, nil)
			return
		}
		writeStoreError(r.Context(), w, err)
		return
	}
	if !user.IsActive {
		writeError(r.Context(), w, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled", false, nil)
		return
	}

	resp := authResponse{User: toUserResponse(user)}
	if deps.IssueToken != nil {
		token, err := deps.IssueToken(user.ID, user.UID, user.Email)
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", err.Error(), true, nil)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}
