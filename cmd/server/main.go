package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jcallahan/adscrub/internal/config"
	"github.com/jcallahan/adscrub/internal/export"
	"github.com/jcallahan/adscrub/internal/identity"
	"github.com/jcallahan/adscrub/internal/middleware"
	"github.com/jcallahan/adscrub/internal/pipeline"
	"github.com/jcallahan/adscrub/internal/upload"
	"github.com/jcallahan/adscrub/pkg/logging"
)

func main() {
	log, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	deny, err := identity.LoadDenyList(cfg.DenyListPath)
	if err != nil {
		log.Warn("deny list asset not loaded, using built-in defaults",
			zap.String("path", cfg.DenyListPath), zap.Error(err))
		deny = identity.DefaultDenyList()
	}

	service := pipeline.NewService(deny, log)
	writer := export.NewWriter(cfg.ExportDir)
	handler := upload.NewHandler(service, writer, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	logRequests := middleware.Logging(log)
	mux := http.NewServeMux()
	mux.Handle("/clean/restaurant", logRequests(handler.Restaurant()))
	mux.Handle("/clean/gym", logRequests(handler.Gym()))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      corsHandler.Handler(mux),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting adscrub server", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
