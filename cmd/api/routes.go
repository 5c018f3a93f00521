package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/crypto"
)

func newRouter(cfg config.Config, st *store, log *zap.Logger) (http.Handler, error) {
	tokens := crypto.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	authService, err := auth.NewService(st.users, crypto.NewBcryptHasher(cfg.BcryptCost), tokens)
	if err != nil {
		return nil, err
	}
	authHandler := auth.NewHTTPHandler(authService, log)

	bookHandler := book.NewHTTPHandler(book.NewService(st.books), log)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", httpx.MetricsHandler())

	router.HandleFunc("POST /api/auth/register", authHandler.Register)
	router.HandleFunc("POST /api/auth/login", authHandler.Login)

	protect := httpx.AuthMiddleware(tokens, log)
	router.Handle("GET /api/books", protect(http.HandlerFunc(bookHandler.List)))
	router.Handle("POST /api/books", protect(http.HandlerFunc(bookHandler.Create)))
	router.Handle("GET /api/books/{id}", protect(http.HandlerFunc(bookHandler.Get)))
	router.Handle("HEAD /api/books/{id}", protect(http.HandlerFunc(bookHandler.Head)))
	router.Handle("PUT /api/books/{id}", protect(http.HandlerFunc(bookHandler.Update)))
	router.Handle("DELETE /api/books/{id}", protect(http.HandlerFunc(bookHandler.Delete)))

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.MetricsMiddleware,
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
	)
	return handler, nil
}
