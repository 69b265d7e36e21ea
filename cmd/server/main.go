package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/gridview/internal/config"
	"github.com/JonMunkholm/gridview/internal/core"
	"github.com/JonMunkholm/gridview/internal/logging"
	"github.com/JonMunkholm/gridview/internal/source"
	"github.com/JonMunkholm/gridview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"database", cfg.Database.Enabled(),
		"page_size", cfg.View.PageSize,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	catalog := core.NewCatalog()

	// File datasets
	n, err := source.LoadDir(cfg.Data.Dir, catalog, source.DirOptions{MaxBytes: cfg.Data.MaxFileSize})
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("data directory not found, no file datasets loaded", "dir", cfg.Data.Dir)
	case err != nil:
		slog.Warn("some dataset files were skipped", "dir", cfg.Data.Dir, "loaded", n, "error", err)
	default:
		slog.Info("file datasets loaded", "dir", cfg.Data.Dir, "count", n)
	}

	// Database tables
	if cfg.Database.Enabled() {
		pool, err := connectDatabase(cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		loadCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.LoadTimeout)
		err = source.LoadPostgresTables(loadCtx, pool, catalog, cfg.Database.Tables, cfg.Database.MaxRows, slog.Default())
		cancel()
		if err != nil {
			slog.Warn("some tables were skipped", "error", err)
		}
	}

	// Log registered datasets
	slog.Info("datasets registered",
		"count", catalog.Len(),
		"groups", len(catalog.Groups()),
	)
	for _, group := range catalog.Groups() {
		slog.Debug("dataset group", "group", group, "datasets", len(catalog.ByGroup(group)))
	}

	server := web.NewServer(catalog, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectDatabase opens and verifies a pool sized from config.
func connectDatabase(cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	// Apply pool configuration from config
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
