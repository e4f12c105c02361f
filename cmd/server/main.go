package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"deltajournal-backend/app"
	"deltajournal-backend/config"
	"deltajournal-backend/handlers"
	"deltajournal-backend/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load .env from the working directory first, then the project root
	config.LoadDotEnv()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize journal backend: %v", err)
	}
	defer a.Close()

	if a.Data.IsRemote() {
		logger.Info("using remote journal backend")
	} else {
		logger.Info("remote backend not configured, journal is stored locally", "storage", cfg.Storage.Type)
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		Data:           a.Data,
		Auth:           a.Auth,
		Insights:       a.Insights,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
