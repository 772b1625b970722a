package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solwindx/api"
	"solwindx/cache"
	"solwindx/datasource"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable backend rate limiting")
	sessionTTL := flag.Duration("session-ttl", 30*time.Minute, "Drop page sessions idle for longer than this")
	dev := flag.Bool("dev", false, "Human readable debug logging")
	flag.Parse()
	if *sessionTTL <= 0 {
		*sessionTTL = 30 * time.Minute
	}

	logger := newLogger(*dev)
	defer logger.Sync()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}

	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		logger.Warn("using default configuration", zap.String("file", *configFile), zap.Error(err))
		config = datasource.DefaultConfig()
	}
	config.ApplyEnv()
	config.RateLimit.Enabled = config.RateLimit.Enabled && *enableRateLimiting

	var service datasource.PredictionService = config.NewService(logger)
	if ttl := time.Duration(config.CitiesCacheTTL); ttl > 0 {
		service = cache.NewCachedService(service, ttl, logger)
	}
	logger.Info("backend configured",
		zap.String("base_url", config.BaseURL),
		zap.String("service", service.Name()),
		zap.Bool("rate_limited", config.RateLimit.Enabled))

	sessions := api.NewSessionStore()
	server := api.NewServer(service, sessions, *port, logger)

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	stopPruning := make(chan struct{})

	// Periodically drop abandoned sessions
	go func() {
		ticker := time.NewTicker(*sessionTTL / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := sessions.PruneIdle(*sessionTTL); n > 0 {
					logger.Info("pruned idle sessions", zap.Int("count", n))
				}
			case <-stopPruning:
				return
			}
		}
	}()

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			shutdownChan <- syscall.SIGTERM
		}
	}()

	sig := <-shutdownChan
	logger.Info("shutting down", zap.String("signal", sig.String()))
	close(stopPruning)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	sessions.PruneIdle(0)

	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
