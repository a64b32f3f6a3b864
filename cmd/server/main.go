package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/app"
	"github.com/arnavshah/shift-roster-ai/pkg/config"
	"github.com/arnavshah/shift-roster-ai/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	// Load .env if it exists
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("could not wire server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.SweepSessions(ctx, 10*time.Minute)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("could not run server", zap.Error(err))
	}

	// let in-flight generations settle before exiting
	a.Handler.Wait()
	logger.Info("server stopped")
}
