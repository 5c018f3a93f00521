package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"libraryapi/internal/config"
	"libraryapi/internal/logger"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		// the logger is configured from cfg, so fall back to a default one
		logger.New("library-api", "info", "").Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New("library-api", cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("cannot open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.close()

	router, err := newRouter(cfg, st, log)
	if err != nil {
		log.Fatal("cannot build router", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver))
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
