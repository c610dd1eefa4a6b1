package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nexdoor/nexdoor/internal/api"
	"github.com/nexdoor/nexdoor/internal/assistant"
	"github.com/nexdoor/nexdoor/internal/auth"
	"github.com/nexdoor/nexdoor/internal/config"
	"github.com/nexdoor/nexdoor/internal/genai"
	"github.com/nexdoor/nexdoor/internal/observability"
	storepostgres "github.com/nexdoor/nexdoor/internal/store/postgres"
)

func main() {
	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("nexdoor-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	db, err := storepostgres.Open(context.Background(), storepostgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := storepostgres.NewRepository(db)

	var pipeline *assistant.Pipeline
	if cfg.Assistant.Enabled {
		service, err := genai.NewOpenAIClient(cfg.Assistant.APIKey, cfg.Assistant.Model,
			genai.WithBaseURL(cfg.Assistant.BaseURL),
			genai.WithTemperature(cfg.Assistant.Temperature),
			genai.WithTimeout(cfg.Assistant.Timeout),
		)
		if err != nil {
			logger.Error("failed to initialize generative client", slog.Any("error", err))
			os.Exit(1)
		}
		pipeline = assistant.NewPipeline(service, db, assistant.DefaultSchema(), cfg.Database.QueryTimeout, logger)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Store:             repo,
		Readiness:         api.CombineReadinessChecks(api.CheckStore(repo), api.CheckAssistantConfig(cfg)),
		DependencyTimeout: time.Second,
	}
	if pipeline != nil {
		deps.Assistant = pipeline
	}
	if cfg.Auth.JWTSecret != "" {
		manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			logger.Error("failed to initialize jwt manager", slog.Any("error", err))
			os.Exit(1)
		}
		deps.IssueToken = func(userID uuid.UUID, uid, email string) (string, error) {
			return manager.Issue(auth.Identity{UserID: userID, UID: uid, Email: email})
		}
		deps.AuthMiddleware = auth.Middleware(logger, manager)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.Bool("assistant_enabled", pipeline != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
