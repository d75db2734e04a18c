package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/telelinker/app/api"
	"github.com/lysyi3m/telelinker/app/cfg"
	"github.com/lysyi3m/telelinker/app/database"
	"github.com/lysyi3m/telelinker/app/scraper"
)

func runServe(ctx context.Context, appCfg *cfg.Cfg) int {
	opts := scraper.Options{}
	if settings, err := cfg.LoadSettings(appCfg.ConfigPath); err == nil {
		opts = scraperOptions(settings)
	} else if errors.Is(err, cfg.ErrConfigNotFound) {
		slog.Info("No config file, using default extractor settings", "config", appCfg.ConfigPath)
	} else {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	var posts api.PostStore
	if appCfg.Serve.DBPath != "" {
		db, err := database.Open(appCfg.Serve.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "path", appCfg.Serve.DBPath, "error", err)
			return 1
		}
		defer db.Close()
		posts = database.NewPostRepository(db)
		slog.Info("Serving stored posts", "path", appCfg.Serve.DBPath)
	}

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(scraper.NewDefaultRegistry(opts), posts, appCfg.Version)
	server := api.NewServer(handler, appCfg.Serve.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Serve.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Serve.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	slog.Info("HTTP server stopped")
	return exitCode
}
