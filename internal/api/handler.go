// Package api exposes the marketplace and assistant endpoints over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexdoor/nexdoor/internal/assistant"
	"github.com/nexdoor/nexdoor/internal/config"
	"github.com/nexdoor/nexdoor/internal/observability"
	"github.com/nexdoor/nexdoor/internal/store"
)

type ReadinessCheck func(ctx context.Context) error

// QuestionAnswerer is the assistant pipeline's inbound surface.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) assistant.FinalAnswer
}

type Dependencies struct {
	Logger            *slog.Logger
	Store             store.Repository
	Assistant         QuestionAnswerer
	IssueToken        func(userID uuid.UUID, uid, email string) (string, error)
	AuthMiddleware    func(http.Handler) http.Handler
	Readiness         ReadinessCheck
	DependencyTimeout time.Duration
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	router := chi.NewRouter()
	router.Use(observability.TraceMiddleware)
	router.Use(observability.MetricsMiddleware)
	if deps.Logger != nil {
		router.Use(observability.LoggingMiddleware(deps.Logger))
	}

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	router.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
				handleSignup(deps, w, r)
			})
			r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
				handleLogin(deps, w, r)
			})
		})

		r.Get("/chatbot", func(w http.ResponseWriter, r *http.Request) {
			handleAskAssistant(deps, w, r)
		})

		r.Group(func(r chi.Router) {
			if cfg.Auth.Required {
				if deps.AuthMiddleware == nil {
					if deps.Logger != nil {
						deps.Logger.Error("auth required but auth middleware missing")
					}
					r.Use(func(http.Handler) http.Handler {
						return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
							writeError(r.Context(), w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_MISSING", "auth middleware is required by configuration", false, nil)
						})
					})
				} else {
					r.Use(deps.AuthMiddleware)
				}
			}

			r.Route("/businesses", func(r chi.Router) {
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { handleCreateBusiness(deps, w, r) })
				r.Get("/", func(w http.ResponseWriter, r *http.Request) { handleListBusinesses(deps, w, r) })
				r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { handleGetBusiness(deps, w, r) })
				r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) { handleUpdateBusiness(deps, w, r) })
				r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { handleDeleteBusiness(deps, w, r) })
				r.Get("/{id}/services", func(w http.ResponseWriter, r *http.Request) { handleListServicesByBusiness(deps, w, r) })
				r.Get("/{id}/products", func(w http.ResponseWriter, r *http.Request) { handleListProductsByBusiness(deps, w, r) })
			})

			r.Route("/services", func(r chi.Router) {
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { handleCreateService(deps, w, r) })
				r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { handleGetService(deps, w, r) })
				r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { handleDeleteService(deps, w, r) })
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { handleCreateProduct(deps, w, r) })
				r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { handleGetProduct(deps, w, r) })
				r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) { handleUpdateProduct(deps, w, r) })
				r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { handleDeleteProduct(deps, w, r) })
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { handleCreateBooking(deps, w, r) })
				r.Get("/", func(w http.ResponseWriter, r *http.Request) { handleListBookings(deps, w, r) })
				r.Patch("/{id}/status", func(w http.ResponseWriter, r *http.Request) { handleUpdateBookingStatus(deps, w, r) })
			})

			r.Route("/marketplace", func(r chi.Router) {
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { handleCreateMarketplaceItem(deps, w, r) })
				r.Get("/", func(w http.ResponseWriter, r *http.Request) { handleListMarketplaceItems(deps, w, r) })
				r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { handleGetMarketplaceItem(deps, w, r) })
				r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { handleDeleteMarketplaceItem(deps, w, r) })
			})
		})
	})

	return router
}

// CheckStore reports readiness of the relational store.
func CheckStore(repo store.Repository) ReadinessCheck {
	return func(ctx context.Context) error {
		if repo == nil {
			return errors.New("store is not configured")
		}
		return repo.HealthCheck(ctx)
	}
}

// CheckAssistantConfig verifies the generative service is configured
// when the assistant is enabled. Disabled assistants are always ready.
func CheckAssistantConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if !cfg.Assistant.Enabled {
			return nil
		}
		if cfg.Assistant.APIKey == "" {
			return errors.New("assistant is enabled but no api key is configured")
		}
		if cfg.Assistant.Model == "" {
			return errors.New("assistant is enabled but no model is configured")
		}
		return nil
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}

func writeStoreError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "NOT_FOUND", "resource not found", false, nil)
		return
	}
	writeError(ctx, w, http.StatusInternalServerError, "STORE_ERROR", err.Error(), true, nil)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
