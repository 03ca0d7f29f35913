package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/ragforge/ai"
	"github.com/use-agent/ragforge/api"
	"github.com/use-agent/ragforge/api/handler"
	"github.com/use-agent/ragforge/cache"
	"github.com/use-agent/ragforge/config"
	"github.com/use-agent/ragforge/orchestrator"
	"github.com/use-agent/ragforge/storage"
)

func main() {
	cfg := config.Load()

	initLogger(cfg.Log)
	slog.Info("ragforge starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	repo, err := newRepository(cfg.Database)
	if err != nil {
		slog.Error("failed to initialise storage", "error", err)
		os.Exit(1)
	}

	var aiClient *ai.Client
	if cfg.AI.APIKey != "" {
		aiClient = ai.NewClient(ai.Params{APIKey: cfg.AI.APIKey, BaseURL: cfg.AI.BaseURL})
	} else {
		slog.Warn("no AI API key configured: embeddings/enrichment phases will warn and skip")
	}

	orch := orchestrator.New(repo, aiClient)
	pageCache := cache.New(cfg.Cache.MaxEntries)

	startTime := time.Now()
	router := api.NewRouter(&handler.Deps{
		Repo:      repo,
		Orch:      orch,
		AIClient:  aiClient,
		Config:    cfg,
		Cache:     pageCache,
		StartTime: startTime,
	})
	metricsHandler := promhttp.Handler()
	router.GET("/metrics", func(c *gin.Context) { metricsHandler.ServeHTTP(c.Writer, c.Request) })

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("ragforge stopped")
}

func newRepository(cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.URL == "" {
		slog.Info("no database URL configured, using in-memory storage")
		return storage.NewMemoryRepository(), nil
	}

	pool, err := pgxpool.New(context.Background(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	repo := storage.NewProjectPostgresRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	slog.Info("connected to postgres storage")
	return repo, nil
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
