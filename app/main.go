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

	"github.com/joho/godotenv"

	"github.com/nouvelles/nouvelles/app/ai"
	"github.com/nouvelles/nouvelles/app/api"
	"github.com/nouvelles/nouvelles/app/cfg"
	"github.com/nouvelles/nouvelles/app/config"
	"github.com/nouvelles/nouvelles/app/feed"
	"github.com/nouvelles/nouvelles/app/fetch"
	"github.com/nouvelles/nouvelles/app/thumb"
)

func main() {
	// Load .env if present; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to load .env file: %v\n", err)
	}

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Nouvelles server", "version", appCfg.Version)

	feeds, err := config.NewLoader(appCfg.FeedsFile).LoadFeeds()
	if err != nil {
		slog.Error("Failed to load feed configuration", "file", appCfg.FeedsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed configuration", "file", appCfg.FeedsFile, "feeds", len(feeds))

	fetcher := fetch.NewClient(appCfg.ProxyURL, appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second)

	aggregator := feed.NewAggregator(fetcher, feed.NewParser())
	hub := feed.NewHub(aggregator, feeds, time.Duration(appCfg.UpdateInterval)*time.Second)
	hub.Start()
	defer hub.Stop()

	resolver := thumb.NewResolver(fetcher)

	askClient := ai.NewClient(appCfg.GeminiAPIKey, appCfg.GeminiModel, fetcher)
	if !askClient.Enabled() {
		slog.Warn("API key not set, AI question answering disabled")
	}

	handler := api.NewHandler(hub, resolver, askClient)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Hub is stopped via defer
	slog.Info("Shutdown complete")
}
