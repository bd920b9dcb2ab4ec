package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"titanicdash/internal"
	"titanicdash/internal/config"
	"titanicdash/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	c, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Warm the cache so the first visitor does not wait on the download. A
	// failure here is retried on the next request.
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Data.FetchTimeout)
	if ds, err := c.Pipeline.Load(ctx, appConfig.Data.SourceURL); err != nil {
		logger.Warn("initial load of %s failed: %v", appConfig.Data.SourceURL, err)
	} else {
		logger.Info("dataset ready: %d rows from %s", ds.Len(), ds.Source())
	}
	cancel()

	app, err := c.NewUI()
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := app.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed: %v", err)
		}
	}()

	if err := app.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
