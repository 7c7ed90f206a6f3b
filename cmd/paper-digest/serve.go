// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/server"
	"github.com/pdiddy/paper-digest/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summarization API over HTTP",
	Long: `Serve starts the HTTP API used by the browser extension:

  GET  /health      liveness probe
  POST /summarize   multipart PDF upload, returns a digest
  POST /align       aligns summary sentences to pages
  POST /split       splits text into sentences

Abstractive rewrites are available when an API key is configured in
.secrets/openai-api-key or OPENAI_API_KEY.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cmd.Flags().Changed("addr") {
		cfg.Server.Address, _ = cmd.Flags().GetString("addr")
	}

	log := logger.New()

	extractor, err := newExtractor(cfg.Ingest)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg.Abstractive)
	if err != nil {
		return err
	}
	if gen == nil {
		log.Info("abstractive summaries disabled: no API key configured")
	}

	var store server.Archiver
	if st, err := archive.Open(cfg.Archive); err != nil {
		log.Warn("archive unavailable", "dir", cfg.Archive.Dir, "error", err)
	} else {
		defer st.Close()
		store = st
	}

	svc := digest.NewService(cfg.Summarize, gen)
	handler := server.NewHandler(cfg, svc, extractor, store, log)
	srv := server.NewRouter(cfg.Server, handler, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", srv.Addr, "backend", string(cfg.Ingest.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")

	rootCmd.AddCommand(serveCmd)
}
