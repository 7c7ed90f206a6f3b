// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the digest pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// NewRouter wires the handlers and returns a configured server.
func NewRouter(cfg types.ServerConfig, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		requestLogger(logger.With("component", "http")),
		corsMiddleware(cfg.AllowedOrigins),
		errorHandlingMiddleware(logger.With("component", "http.error")),
	)

	router.GET("/health", handler.Health)
	router.POST("/summarize", handler.Summarize)
	router.POST("/align", handler.Align)
	router.POST("/split", handler.Split)

	return &http.Server{
		Addr:           cfg.Address,
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
